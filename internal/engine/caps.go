package engine

import "github.com/hyalite/mediacopy/internal/model"

// FormatSupport reports per-engine format capability for one hardware
// generation. *hal.Generation satisfies it; tests substitute counting stubs.
type FormatSupport interface {
	VeboxFormatSupported(src, dst model.Format) bool
	RenderFormatSupported(src, dst model.Format) bool
}

// CheckProtection enforces the global protection-legality rule: a protected
// source may only be copied to a clear destination when the explicit blitter
// allowance is configured (staging readback). This runs strictly before any
// capability evaluation so an illegal request never touches the format tables.
func CheckProtection(src, dst model.Surface, allowProtectedBltCopy bool) error {
	if src.Protection == model.ProtectionProtected &&
		dst.Protection != model.ProtectionProtected &&
		!allowProtectedBltCopy {
		return ErrProtectionViolation
	}
	return nil
}

// EvaluateCaps computes the per-engine capability set for a surface pair.
// Evaluation starts from the available set (engines the hardware actually
// has) and rules only clear flags, so rule order does not matter:
//
//   - vebox is cleared when the fixed-function format table rejects the pair
//     or the source carries an auxiliary surface,
//   - render is cleared under its own format table plus the same aux
//     condition, evaluated independently,
//   - blt has no format gate and remains the universal fallback.
//
// A set with no capable engine is a hard error, not a degraded path.
func EvaluateCaps(src, dst model.Surface, support FormatSupport, available model.CapabilitySet) (model.CapabilitySet, error) {
	caps := available

	if !support.VeboxFormatSupported(src.Format, dst.Format) || src.Aux {
		caps.Vebox = false
	}
	if !support.RenderFormatSupported(src.Format, dst.Format) || src.Aux {
		caps.Render = false
	}

	if !caps.Any() {
		return caps, ErrNoCapableEngine
	}
	return caps, nil
}
