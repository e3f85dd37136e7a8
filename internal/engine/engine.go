package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyalite/mediacopy/internal/dumper"
	"github.com/hyalite/mediacopy/internal/hal"
	"github.com/hyalite/mediacopy/internal/model"
	"github.com/hyalite/mediacopy/internal/store"
)

// Options configures a copy Engine.
type Options struct {
	// Provider answers surface metadata queries.
	Provider hal.ResourceProvider
	// Decompressor runs the blitter decompression pre-step.
	Decompressor hal.Decompressor
	// Registry resolves the selected engine to its implementation.
	Registry *hal.Registry
	// Support holds the generation's format tables.
	Support FormatSupport
	// Store receives one record per copy invocation. Optional.
	Store store.Store
	// Dumper writes before/after surface dumps. Optional, debug only.
	Dumper *dumper.Dumper
	// Logger defaults to a silent logger when nil.
	Logger *slog.Logger

	// AllowProtectedBltCopy permits protected→clear copies (staging readback
	// through the blitter).
	AllowProtectedBltCopy bool
	// ForceMode pins engine selection for diagnostics. Production
	// configurations leave it at ForceNone.
	ForceMode model.ForceMode
	// Debug enables the frame counter, surface dumps, and engine-choice
	// reporting.
	Debug bool
}

// Engine orchestrates surface copies: metadata gathering, capability
// evaluation, policy selection, and serialized dispatch.
//
// An Engine is safe for concurrent use. Evaluation and selection run
// lock-free on call-local data; only the dispatch critical section is
// serialized, so concurrent callers block solely on the hardware submission
// itself.
type Engine struct {
	provider hal.ResourceProvider
	decomp   hal.Decompressor
	registry *hal.Registry
	support  FormatSupport
	store    store.Store
	dumper   *dumper.Dumper
	logger   *slog.Logger

	allowProtectedBltCopy bool
	force                 model.ForceMode
	debug                 bool

	dispatchMu sync.Mutex
	frameNum   atomic.Int64
}

// New creates a copy Engine from the given options.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		provider:              opts.Provider,
		decomp:                opts.Decompressor,
		registry:              opts.Registry,
		support:               opts.Support,
		store:                 opts.Store,
		dumper:                opts.Dumper,
		logger:                logger,
		allowProtectedBltCopy: opts.AllowProtectedBltCopy,
		force:                 opts.ForceMode,
		debug:                 opts.Debug,
	}
}

// Copy performs one surface copy. It gathers fresh metadata for both
// resources, runs the legality and capability checks, selects an engine per
// the policy, and dispatches. The returned record reflects the outcome even
// when err is non-nil; the first failing stage aborts the rest and its error
// is returned unchanged.
func (e *Engine) Copy(ctx context.Context, src, dst hal.Resource, policy model.Policy) (*model.CopyRecord, error) {
	srcSurf, err := e.describeSurface(src)
	if err != nil {
		return nil, fmt.Errorf("describe source surface: %w", err)
	}
	dstSurf, err := e.describeSurface(dst)
	if err != nil {
		return nil, fmt.Errorf("describe destination surface: %w", err)
	}

	e.logger.Debug("copy requested",
		"src", src.ID(), "src_format", srcSurf.Format, "src_tile", srcSurf.Tile,
		"src_compression", srcSurf.Compression, "src_protection", srcSurf.Protection,
		"dst", dst.ID(), "dst_format", dstSurf.Format, "dst_tile", dstSurf.Tile,
		"dst_compression", dstSurf.Compression, "dst_protection", dstSurf.Protection,
		"policy", policy,
	)

	rec := &model.CopyRecord{
		ID:             model.NewID(),
		Status:         model.StatusRejected,
		Policy:         policy,
		SrcFormat:      srcSurf.Format,
		DstFormat:      dstSurf.Format,
		SrcTile:        srcSurf.Tile,
		DstTile:        dstSurf.Tile,
		SrcCompression: srcSurf.Compression,
		DstCompression: dstSurf.Compression,
		CreatedAt:      time.Now().UTC(),
	}

	// Legality strictly precedes capability evaluation: an illegal request
	// must not consult the format tables.
	if err := CheckProtection(srcSurf, dstSurf, e.allowProtectedBltCopy); err != nil {
		e.finish(ctx, rec, err)
		return rec, err
	}

	caps, err := EvaluateCaps(srcSurf, dstSurf, e.support, e.registry.Available())
	if err != nil {
		e.finish(ctx, rec, err)
		return rec, err
	}

	choice, err := SelectEngine(caps, policy, e.force)
	if err != nil {
		e.finish(ctx, rec, err)
		return rec, err
	}
	rec.Engine = choice

	start := time.Now()
	err = e.dispatch(ctx, src, dst, srcSurf, choice, rec)
	rec.DurationUS = time.Since(start).Microseconds()
	e.finish(ctx, rec, err)
	return rec, err
}

// AuxCopy copies the auxiliary (compression metadata) surface between two
// resources. It is an extension point for generations with auxiliary-surface
// engine support; the base engine reports it as unsupported.
func (e *Engine) AuxCopy(_ context.Context, _, _ hal.Resource) error {
	return ErrAuxCopyUnsupported
}

// describeSurface builds the copy-time snapshot of one surface from the
// provider's independent metadata, compression, and protection queries.
func (e *Engine) describeSurface(res hal.Resource) (model.Surface, error) {
	surf, err := e.provider.SurfaceInfo(res)
	if err != nil {
		return model.Surface{}, err
	}
	comp, err := e.provider.CompressionMode(res)
	if err != nil {
		return model.Surface{}, err
	}
	surf.Compression = comp
	surf.Protection = model.ProtectionClear
	if e.provider.Protected(res) {
		surf.Protection = model.ProtectionProtected
	}
	return surf, nil
}

// finish stamps the record with the outcome, observes metrics, and persists
// the record. Persistence failures are logged and never affect the copy's
// status.
func (e *Engine) finish(ctx context.Context, rec *model.CopyRecord, err error) {
	switch {
	case err == nil:
		rec.Status = model.StatusCompleted
	case rec.Engine == "":
		rec.Status = model.StatusRejected
		rec.Error = err.Error()
	default:
		rec.Status = model.StatusFailed
		rec.Error = err.Error()
	}

	observeCopy(rec.Engine, rec.Status)

	if err == nil {
		e.logger.Info("copy completed", "id", rec.ID, "engine", rec.Engine, "duration_us", rec.DurationUS)
	} else {
		e.logger.Warn("copy not completed", "id", rec.ID, "engine", rec.Engine, "status", rec.Status, "error", err)
	}

	if e.store != nil {
		if serr := e.store.CreateCopyRecord(ctx, rec); serr != nil {
			e.logger.Error("persist copy record", "id", rec.ID, "error", serr)
		}
	}
}
