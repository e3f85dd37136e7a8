package engine

import (
	"context"
	"time"

	"github.com/hyalite/mediacopy/internal/dumper"
	"github.com/hyalite/mediacopy/internal/hal"
	"github.com/hyalite/mediacopy/internal/model"
)

// dispatch submits the copy on the chosen engine. The instance lock covers
// the frame stamp, the decompression pre-step, the submission, and the debug
// dumps, so overlapping copies never interleave on shared engine state and
// every dump pair carries its own frame number. The lock is released on every
// exit path. Surface dumps are diagnostic side effects and never affect the
// returned error.
func (e *Engine) dispatch(ctx context.Context, src, dst hal.Resource, srcSurf model.Surface, choice model.Engine, rec *model.CopyRecord) error {
	backend, err := e.registry.Resolve(choice)
	if err != nil {
		return err
	}

	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()

	var frame int64
	if e.debug {
		frame = e.frameNum.Load()
		rec.FrameIndex = &frame
		if e.dumper != nil {
			e.dumper.Dump(src, dumper.StageIn, frame)
		}
	}

	// Duration covers the pre-step and the submission, not the wait for the
	// lock.
	start := time.Now()

	// The blitter cannot read tiled compressed memory directly; resolve the
	// source first. A pre-step failure aborts the copy without a submission.
	if choice == model.EngineBlt && !srcSurf.Tile.Linear() && srcSurf.Compression.Active() {
		e.logger.Debug("decompressing source before blt copy",
			"surface", src.ID(), "tile", srcSurf.Tile, "compression", srcSurf.Compression)
		decompressionsTotal.Inc()
		if derr := e.decomp.Decompress(ctx, src); derr != nil {
			return derr
		}
	}

	err = backend.Copy(ctx, src, dst)
	dispatchDuration.WithLabelValues(string(choice)).Observe(time.Since(start).Seconds())

	if e.debug {
		e.logger.Debug("copy dispatched", "engine", choice, "frame", frame)
		if e.dumper != nil {
			e.dumper.Dump(dst, dumper.StageOut, frame)
		}
		e.frameNum.Add(1)
	}

	return err
}
