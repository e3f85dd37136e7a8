package engine_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hyalite/mediacopy/internal/engine"
	"github.com/hyalite/mediacopy/internal/model"
)

// countingSupport is a FormatSupport stub that counts table lookups.
type countingSupport struct {
	vebox, render bool
	veboxCalls    atomic.Int64
	renderCalls   atomic.Int64
}

func (c *countingSupport) VeboxFormatSupported(_, _ model.Format) bool {
	c.veboxCalls.Add(1)
	return c.vebox
}

func (c *countingSupport) RenderFormatSupported(_, _ model.Format) bool {
	c.renderCalls.Add(1)
	return c.render
}

var allAvailable = model.CapabilitySet{Vebox: true, Blt: true, Render: true}

func surf(format model.Format) model.Surface {
	return model.Surface{
		Format: format, Width: 64, Height: 64, Pitch: 64,
		Tile: model.TileLinear, Compression: model.CompressionDisabled,
		Protection: model.ProtectionClear,
	}
}

func TestCheckProtection(t *testing.T) {
	protected := surf(model.FormatNV12)
	protected.Protection = model.ProtectionProtected
	clear := surf(model.FormatNV12)

	if err := engine.CheckProtection(protected, clear, false); !errors.Is(err, engine.ErrProtectionViolation) {
		t.Errorf("protected→clear without allowance: err = %v, want ErrProtectionViolation", err)
	}
	if err := engine.CheckProtection(protected, clear, true); err != nil {
		t.Errorf("protected→clear with allowance: %v", err)
	}
	if err := engine.CheckProtection(protected, protected, false); err != nil {
		t.Errorf("protected→protected: %v", err)
	}
	if err := engine.CheckProtection(clear, protected, false); err != nil {
		t.Errorf("clear→protected: %v", err)
	}
	if err := engine.CheckProtection(clear, clear, false); err != nil {
		t.Errorf("clear→clear: %v", err)
	}
}

func TestEvaluateCapsFormatGates(t *testing.T) {
	tests := []struct {
		name          string
		vebox, render bool
		aux           bool
		want          model.CapabilitySet
	}{
		{"all formats pass", true, true, false, model.CapabilitySet{Vebox: true, Blt: true, Render: true}},
		{"vebox-only format", true, false, false, model.CapabilitySet{Vebox: true, Blt: true}},
		{"render-only format", false, true, false, model.CapabilitySet{Blt: true, Render: true}},
		{"both tables reject", false, false, false, model.CapabilitySet{Blt: true}},
		{"aux clears fixed-function and render", true, true, true, model.CapabilitySet{Blt: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := surf(model.FormatNV12)
			src.Aux = tc.aux
			support := &countingSupport{vebox: tc.vebox, render: tc.render}

			caps, err := engine.EvaluateCaps(src, surf(model.FormatNV12), support, allAvailable)
			if err != nil {
				t.Fatalf("EvaluateCaps: %v", err)
			}
			if caps != tc.want {
				t.Errorf("caps = %+v, want %+v", caps, tc.want)
			}
		})
	}
}

func TestEvaluateCapsZeroCapableEngines(t *testing.T) {
	// An aux source disqualifies vebox and render; hardware without a
	// blitter leaves nothing.
	src := surf(model.FormatNV12)
	src.Aux = true
	noBlt := model.CapabilitySet{Vebox: true, Blt: false, Render: true}

	caps, err := engine.EvaluateCaps(src, surf(model.FormatNV12), &countingSupport{vebox: true, render: true}, noBlt)
	if !errors.Is(err, engine.ErrNoCapableEngine) {
		t.Errorf("err = %v, want ErrNoCapableEngine", err)
	}
	if caps.Any() {
		t.Errorf("caps = %+v, want none capable", caps)
	}
}

func TestEvaluateCapsUnavailableEngineStaysIncapable(t *testing.T) {
	// Rules only clear flags: an unregistered engine must never be set
	// capable even when its format table passes.
	noVebox := model.CapabilitySet{Vebox: false, Blt: true, Render: true}

	caps, err := engine.EvaluateCaps(surf(model.FormatNV12), surf(model.FormatNV12),
		&countingSupport{vebox: true, render: true}, noVebox)
	if err != nil {
		t.Fatalf("EvaluateCaps: %v", err)
	}
	if caps.Vebox {
		t.Error("vebox became capable despite being unavailable")
	}
}
