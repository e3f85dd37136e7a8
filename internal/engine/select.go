package engine

import "github.com/hyalite/mediacopy/internal/model"

// SelectEngine picks one engine from the capability set according to the
// policy's preference order, always falling back to the next capable engine.
// It cannot fail once EvaluateCaps has guaranteed at least one capable engine,
// except under the diagnostic bypass force mode, which aborts the copy
// unconditionally.
//
// Preference orders:
//
//	performance / default:  render, blt, vebox
//	balanced:               vebox, blt, render
//	power-saving:           blt, vebox, render
func SelectEngine(caps model.CapabilitySet, policy model.Policy, force model.ForceMode) (model.Engine, error) {
	var engine model.Engine
	switch policy {
	case model.PolicyBalanced:
		engine = pick(caps.Vebox, model.EngineVebox, pick(caps.Blt, model.EngineBlt, model.EngineRender))
	case model.PolicyPowerSaving:
		engine = pick(caps.Blt, model.EngineBlt, pick(caps.Vebox, model.EngineVebox, model.EngineRender))
	default: // performance and its default alias
		engine = pick(caps.Render, model.EngineRender, pick(caps.Blt, model.EngineBlt, model.EngineVebox))
	}

	// Diagnostic override: pins the engine regardless of policy and
	// capability. Production configurations never populate force.
	switch force {
	case model.ForcePerformance:
		engine = model.EngineRender
	case model.ForcePowerSaving:
		engine = model.EngineBlt
	case model.ForceBalanced:
		engine = model.EngineVebox
	case model.ForceBypass:
		return "", ErrCopyBypassed
	}

	return engine, nil
}

func pick(ok bool, engine, fallback model.Engine) model.Engine {
	if ok {
		return engine
	}
	return fallback
}
