package engine

import "errors"

// Invalid-parameter class errors. All of these are fatal to the current copy
// and are never retried.
var (
	// ErrProtectionViolation is returned when the source is protected and the
	// destination is clear without the explicit blitter allowance configured.
	ErrProtectionViolation = errors.New("engine: protected to clear copy not allowed")

	// ErrNoCapableEngine is returned when every engine has been disqualified
	// for the surface pair.
	ErrNoCapableEngine = errors.New("engine: no capable engine for surface pair")

	// ErrCopyBypassed is returned when the diagnostic force mode is set to
	// bypass; the caller must handle the copy itself.
	ErrCopyBypassed = errors.New("engine: copy bypassed by forced mode")

	// ErrAuxCopyUnsupported is returned by AuxCopy on generations without
	// auxiliary-surface engine support.
	ErrAuxCopyUnsupported = errors.New("engine: aux surface copy not supported on this generation")
)
