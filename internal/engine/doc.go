// Package engine implements the copy orchestrator: it evaluates which hardware
// engines can perform a surface copy, selects one according to the caller's
// policy, and serializes dispatch to the selected engine under a single
// instance-scoped lock, running the blitter decompression pre-step when the
// source layout requires it.
package engine
