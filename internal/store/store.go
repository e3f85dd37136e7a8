package store

import (
	"context"

	"github.com/hyalite/mediacopy/internal/model"
)

// CopyStats holds aggregate copy telemetry.
type CopyStats struct {
	Total         int            `json:"total"`
	CountByStatus map[string]int `json:"count_by_status"`
	CountByEngine map[string]int `json:"count_by_engine"`
	AvgDurationUS float64        `json:"avg_duration_us"`
}

// Store defines the persistence operations for copy records.
type Store interface {
	CreateCopyRecord(ctx context.Context, rec *model.CopyRecord) error
	GetCopyRecord(ctx context.Context, id string) (*model.CopyRecord, error)
	ListCopyRecords(ctx context.Context, limit, offset int) ([]*model.CopyRecord, int, error)
	GetCopyStats(ctx context.Context) (*CopyStats, error)
	Close() error
}
