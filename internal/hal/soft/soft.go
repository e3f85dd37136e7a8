// Package soft provides an in-memory software implementation of the HAL
// contracts. It backs tests, the validation API, and local bring-up when no
// real hardware path is wired in. Surfaces are plain byte buffers laid out
// with the declared pitch; the three engine implementations all perform the
// same row-by-row copy, differing only in name.
package soft

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyalite/mediacopy/internal/hal"
	"github.com/hyalite/mediacopy/internal/model"
)

// Surface is an in-memory surface allocation.
type Surface struct {
	id   string
	info model.Surface
	data []byte
}

// ID returns the surface's allocation identifier.
func (s *Surface) ID() string { return s.id }

// Bytes returns the backing buffer. Only valid before the surface is handed
// to the copy engine; callers must not retain it across a Release.
func (s *Surface) Bytes() []byte { return s.data }

// HAL is the in-memory software HAL. It implements hal.ResourceProvider,
// hal.Decompressor, and hal.SurfaceReader, and owns the lifetime of every
// surface it creates. mu guards the surface map and every surface's info and
// data; Decompress mutates a surface's state while metadata queries run
// concurrently, so all accessors read under the lock.
type HAL struct {
	mu       sync.Mutex
	surfaces map[string]*Surface
	nextID   int
}

// Compile-time interface satisfaction checks.
var (
	_ hal.ResourceProvider = (*HAL)(nil)
	_ hal.Decompressor     = (*HAL)(nil)
	_ hal.SurfaceReader    = (*HAL)(nil)
)

// New creates an empty software HAL.
func New() *HAL {
	return &HAL{surfaces: make(map[string]*Surface)}
}

// CreateSurface allocates a surface with the given metadata. Pitch must cover
// the declared width; only plane 0 is modeled, which is sufficient for
// exercising the dispatch layer.
func (h *HAL) CreateSurface(info model.Surface) (*Surface, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("soft: invalid surface dimensions %dx%d", info.Width, info.Height)
	}
	if info.Pitch < info.Width {
		return nil, fmt.Errorf("soft: pitch %d smaller than width %d", info.Pitch, info.Width)
	}
	if info.Tile == "" {
		info.Tile = model.TileLinear
	}
	if info.Compression == "" {
		info.Compression = model.CompressionDisabled
	}
	if info.Protection == "" {
		info.Protection = model.ProtectionClear
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &Surface{
		id:   fmt.Sprintf("surf-%04d", h.nextID),
		info: info,
		data: make([]byte, info.Pitch*info.Height),
	}
	h.surfaces[s.id] = s
	return s, nil
}

// Release frees a surface. Releasing an unknown surface is a no-op.
func (h *HAL) Release(res hal.Resource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.surfaces, res.ID())
}

// lookup resolves a handle back to a live surface. Callers must hold h.mu.
func (h *HAL) lookup(res hal.Resource) (*Surface, error) {
	s, ok := h.surfaces[res.ID()]
	if !ok {
		return nil, fmt.Errorf("soft: unknown surface %q", res.ID())
	}
	return s, nil
}

// SurfaceInfo returns the surface's metadata snapshot.
func (h *HAL) SurfaceInfo(res hal.Resource) (model.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.lookup(res)
	if err != nil {
		return model.Surface{}, err
	}
	return s.info, nil
}

// CompressionMode returns the surface's memory-compression state.
func (h *HAL) CompressionMode(res hal.Resource) (model.Compression, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.lookup(res)
	if err != nil {
		return "", err
	}
	return s.info.Compression, nil
}

// Protected reports whether the surface carries content protection. Unknown
// surfaces report clear; the provider queries only run on handles the caller
// just created.
func (h *HAL) Protected(res hal.Resource) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.lookup(res)
	if err != nil {
		return false
	}
	return s.info.Protection == model.ProtectionProtected
}

// Decompress resolves the surface to its uncompressed state in place.
func (h *HAL) Decompress(_ context.Context, res hal.Resource) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.lookup(res)
	if err != nil {
		return err
	}
	s.info.Compression = model.CompressionDisabled
	return nil
}

// SurfaceBytes returns a copy of the surface's backing bytes for debug dumps.
func (h *HAL) SurfaceBytes(res hal.Resource) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.lookup(res)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}
