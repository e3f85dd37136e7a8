package hal

import (
	"context"

	"github.com/hyalite/mediacopy/internal/model"
)

// Resource is an opaque handle to a surface allocation owned by the HAL. The
// copy engine never touches surface memory itself; it only passes handles
// between collaborators.
type Resource interface {
	// ID returns a stable identifier for the allocation, used in logs,
	// records, and dump file names.
	ID() string
}

// ResourceProvider exposes the surface metadata queries the copy engine needs
// before it can evaluate capabilities.
type ResourceProvider interface {
	// SurfaceInfo returns the geometry, format, and tiling of a surface.
	SurfaceInfo(res Resource) (model.Surface, error)

	// CompressionMode returns the memory-compression state of a surface.
	CompressionMode(res Resource) (model.Compression, error)

	// Protected reports whether the surface carries content protection.
	Protected(res Resource) bool
}

// Decompressor resolves a compressed surface in place so that engines without
// compression support can read it. Invoked only for the blitter pre-step.
type Decompressor interface {
	Decompress(ctx context.Context, res Resource) error
}

// CopyEngine submits a surface copy on one hardware engine. Command-buffer
// construction is entirely the implementation's concern.
type CopyEngine interface {
	// Name returns the engine this implementation drives.
	Name() model.Engine

	// Copy submits src→dst on this engine and blocks until the submission
	// completes or fails.
	Copy(ctx context.Context, src, dst Resource) error
}

// SurfaceReader is implemented by HALs that can expose raw surface bytes for
// debug dumps.
type SurfaceReader interface {
	SurfaceBytes(res Resource) ([]byte, error)
}
