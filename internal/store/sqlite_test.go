package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyalite/mediacopy/internal/model"
	"github.com/hyalite/mediacopy/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeRecord(status string, engine model.Engine, durationUS int64) *model.CopyRecord {
	return &model.CopyRecord{
		ID:             model.NewID(),
		Status:         status,
		Engine:         engine,
		Policy:         model.PolicyPerformance,
		SrcFormat:      model.FormatNV12,
		DstFormat:      model.FormatNV12,
		SrcTile:        model.TileY,
		DstTile:        model.TileLinear,
		SrcCompression: model.CompressionMC,
		DstCompression: model.CompressionDisabled,
		DurationUS:     durationUS,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCreateAndGetCopyRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	frame := int64(3)
	rec := makeRecord(model.StatusCompleted, model.EngineBlt, 120)
	rec.FrameIndex = &frame

	if err := s.CreateCopyRecord(ctx, rec); err != nil {
		t.Fatalf("CreateCopyRecord: %v", err)
	}

	got, err := s.GetCopyRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetCopyRecord: %v", err)
	}
	if got.Engine != model.EngineBlt {
		t.Errorf("engine = %q, want %q", got.Engine, model.EngineBlt)
	}
	if got.SrcTile != model.TileY || got.DstTile != model.TileLinear {
		t.Errorf("tiles = %q→%q, want tile-y→linear", got.SrcTile, got.DstTile)
	}
	if got.FrameIndex == nil || *got.FrameIndex != 3 {
		t.Errorf("frame index = %v, want 3", got.FrameIndex)
	}
	if got.DurationUS != 120 {
		t.Errorf("duration = %d, want 120", got.DurationUS)
	}
}

func TestGetCopyRecordNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCopyRecord(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListCopyRecordsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := makeRecord(model.StatusCompleted, model.EngineRender, int64(i))
		rec.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := s.CreateCopyRecord(ctx, rec); err != nil {
			t.Fatalf("CreateCopyRecord: %v", err)
		}
	}

	recs, total, err := s.ListCopyRecords(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListCopyRecords: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	// Newest first.
	if recs[0].DurationUS != 4 {
		t.Errorf("first record duration = %d, want 4 (newest)", recs[0].DurationUS)
	}

	recs, _, err = s.ListCopyRecords(ctx, 10, 4)
	if err != nil {
		t.Fatalf("ListCopyRecords offset: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len(recs) at offset 4 = %d, want 1", len(recs))
	}
}

func TestGetCopyStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []*model.CopyRecord{
		makeRecord(model.StatusCompleted, model.EngineBlt, 100),
		makeRecord(model.StatusCompleted, model.EngineBlt, 300),
		makeRecord(model.StatusFailed, model.EngineVebox, 200),
		makeRecord(model.StatusRejected, "", 0),
	}
	for _, rec := range records {
		if err := s.CreateCopyRecord(ctx, rec); err != nil {
			t.Fatalf("CreateCopyRecord: %v", err)
		}
	}

	stats, err := s.GetCopyStats(ctx)
	if err != nil {
		t.Fatalf("GetCopyStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.CountByStatus[model.StatusCompleted] != 2 {
		t.Errorf("completed = %d, want 2", stats.CountByStatus[model.StatusCompleted])
	}
	if stats.CountByEngine[string(model.EngineBlt)] != 2 {
		t.Errorf("blt count = %d, want 2", stats.CountByEngine[string(model.EngineBlt)])
	}
	if _, ok := stats.CountByEngine[""]; ok {
		t.Error("rejected record leaked an empty engine label into stats")
	}
	// Average excludes the rejected record: (100+300+200)/3.
	if stats.AvgDurationUS != 200 {
		t.Errorf("avg duration = %v, want 200", stats.AvgDurationUS)
	}
}
