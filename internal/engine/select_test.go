package engine_test

import (
	"errors"
	"testing"

	"github.com/hyalite/mediacopy/internal/engine"
	"github.com/hyalite/mediacopy/internal/model"
)

func caps(vebox, blt, render bool) model.CapabilitySet {
	return model.CapabilitySet{Vebox: vebox, Blt: blt, Render: render}
}

func TestSelectEnginePreferenceOrders(t *testing.T) {
	tests := []struct {
		name   string
		policy model.Policy
		caps   model.CapabilitySet
		want   model.Engine
	}{
		// performance / default: render, blt, vebox
		{"performance all capable", model.PolicyPerformance, caps(true, true, true), model.EngineRender},
		{"performance no render", model.PolicyPerformance, caps(true, true, false), model.EngineBlt},
		{"performance vebox only", model.PolicyPerformance, caps(true, false, false), model.EngineVebox},
		{"default aliases performance", model.PolicyDefault, caps(true, true, true), model.EngineRender},
		// balanced: vebox, blt, render
		{"balanced all capable", model.PolicyBalanced, caps(true, true, true), model.EngineVebox},
		{"balanced no vebox", model.PolicyBalanced, caps(false, true, true), model.EngineBlt},
		{"balanced render only", model.PolicyBalanced, caps(false, false, true), model.EngineRender},
		// power-saving: blt, vebox, render
		{"powersaving all capable", model.PolicyPowerSaving, caps(true, true, true), model.EngineBlt},
		{"powersaving no blt", model.PolicyPowerSaving, caps(true, false, true), model.EngineVebox},
		{"powersaving render only", model.PolicyPowerSaving, caps(false, false, true), model.EngineRender},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.SelectEngine(tc.caps, tc.policy, model.ForceNone)
			if err != nil {
				t.Fatalf("SelectEngine: %v", err)
			}
			if got != tc.want {
				t.Errorf("SelectEngine(%+v, %s) = %q, want %q", tc.caps, tc.policy, got, tc.want)
			}
		})
	}
}

func TestSelectEngineDeterministic(t *testing.T) {
	c := caps(true, true, true)
	first, err := engine.SelectEngine(c, model.PolicyBalanced, model.ForceNone)
	if err != nil {
		t.Fatalf("SelectEngine: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := engine.SelectEngine(c, model.PolicyBalanced, model.ForceNone)
		if err != nil {
			t.Fatalf("SelectEngine: %v", err)
		}
		if got != first {
			t.Fatalf("selection not deterministic: %q then %q", first, got)
		}
	}
}

func TestSelectEngineForceModes(t *testing.T) {
	tests := []struct {
		force model.ForceMode
		want  model.Engine
	}{
		{model.ForcePerformance, model.EngineRender},
		{model.ForcePowerSaving, model.EngineBlt},
		{model.ForceBalanced, model.EngineVebox},
	}

	for _, tc := range tests {
		// Policy prefers something else; force wins unconditionally.
		got, err := engine.SelectEngine(caps(true, true, true), model.PolicyBalanced, tc.force)
		if err != nil {
			t.Fatalf("SelectEngine(force=%s): %v", tc.force, err)
		}
		if got != tc.want {
			t.Errorf("force %s selected %q, want %q", tc.force, got, tc.want)
		}
	}
}

func TestSelectEngineForceBypass(t *testing.T) {
	_, err := engine.SelectEngine(caps(true, true, true), model.PolicyPerformance, model.ForceBypass)
	if !errors.Is(err, engine.ErrCopyBypassed) {
		t.Errorf("err = %v, want ErrCopyBypassed", err)
	}
}
