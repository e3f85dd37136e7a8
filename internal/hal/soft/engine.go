package soft

import (
	"context"
	"fmt"

	"github.com/hyalite/mediacopy/internal/hal"
	"github.com/hyalite/mediacopy/internal/model"
)

// Engine is a software copy engine. All three engines share the same row-wise
// copy; the name only determines which dispatch slot they fill.
type Engine struct {
	name model.Engine
	hal  *HAL
}

var _ hal.CopyEngine = (*Engine)(nil)

// Engines returns one software engine per hardware engine slot, ready to be
// registered.
func (h *HAL) Engines() []*Engine {
	engines := make([]*Engine, 0, len(model.Engines))
	for _, name := range model.Engines {
		engines = append(engines, &Engine{name: name, hal: h})
	}
	return engines
}

// Name returns the engine slot this implementation fills.
func (e *Engine) Name() model.Engine { return e.name }

// Copy performs a row-by-row copy of src into dst, honoring each surface's
// pitch. The copied region is the overlap of the two surfaces. The HAL lock
// is held for the whole copy so concurrent metadata queries and dumps see
// either the old or the new destination bytes, never a partial row.
func (e *Engine) Copy(ctx context.Context, src, dst hal.Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.hal.mu.Lock()
	defer e.hal.mu.Unlock()

	s, err := e.hal.lookup(src)
	if err != nil {
		return fmt.Errorf("%s copy: %w", e.name, err)
	}
	d, err := e.hal.lookup(dst)
	if err != nil {
		return fmt.Errorf("%s copy: %w", e.name, err)
	}

	rows := min(s.info.Height, d.info.Height)
	rowBytes := min(s.info.Pitch, d.info.Pitch)
	for y := 0; y < rows; y++ {
		copy(d.data[y*d.info.Pitch:y*d.info.Pitch+rowBytes],
			s.data[y*s.info.Pitch:y*s.info.Pitch+rowBytes])
	}
	return nil
}
