// Package dumper writes raw surface dumps for debug configurations. Dumps are
// best-effort diagnostics: every failure is logged and none is ever
// propagated to the copy path.
package dumper

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hyalite/mediacopy/internal/hal"
)

// Dump stages, used in file names to distinguish the source snapshot taken
// before dispatch from the destination snapshot taken after.
const (
	StageIn  = "in"
	StageOut = "out"
)

// Dumper writes frame-correlated surface dumps into a directory.
type Dumper struct {
	dir    string
	reader hal.SurfaceReader
	logger *slog.Logger
}

// New creates a Dumper writing into dir, creating it if needed.
func New(dir string, reader hal.SurfaceReader, logger *slog.Logger) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump directory: %w", err)
	}
	return &Dumper{dir: dir, reader: reader, logger: logger}, nil
}

// Dump writes the surface's raw bytes to
// <dir>/mcpy_<stage>_frame%04d_<id>.raw.
func (d *Dumper) Dump(res hal.Resource, stage string, frame int64) {
	data, err := d.reader.SurfaceBytes(res)
	if err != nil {
		d.logger.Warn("surface dump skipped", "surface", res.ID(), "stage", stage, "error", err)
		return
	}

	name := fmt.Sprintf("mcpy_%s_frame%04d_%s.raw", stage, frame, res.ID())
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		d.logger.Warn("surface dump failed", "path", path, "error", err)
		return
	}
	d.logger.Debug("surface dumped", "path", path, "bytes", len(data))
}
