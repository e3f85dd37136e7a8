package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyalite/mediacopy/internal/model"

	_ "modernc.org/sqlite"
)

const createCopyRecordsTable = `
CREATE TABLE IF NOT EXISTS copy_records (
    id              TEXT PRIMARY KEY,
    status          TEXT NOT NULL,
    engine          TEXT,
    policy          TEXT NOT NULL,
    src_format      TEXT NOT NULL,
    dst_format      TEXT NOT NULL,
    src_tile        TEXT NOT NULL,
    dst_tile        TEXT NOT NULL,
    src_compression TEXT NOT NULL,
    dst_compression TEXT NOT NULL,
    error           TEXT,
    duration_us     INTEGER NOT NULL,
    frame_index     INTEGER,
    created_at      DATETIME NOT NULL
)`

// ErrNotFound is returned when a copy record is not found.
var ErrNotFound = errors.New("copy record not found")

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(createCopyRecordsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create copy_records table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateCopyRecord inserts a new copy record.
func (s *SQLiteStore) CreateCopyRecord(ctx context.Context, rec *model.CopyRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO copy_records (
			id, status, engine, policy, src_format, dst_format,
			src_tile, dst_tile, src_compression, dst_compression,
			error, duration_us, frame_index, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Status, string(rec.Engine), string(rec.Policy),
		string(rec.SrcFormat), string(rec.DstFormat),
		string(rec.SrcTile), string(rec.DstTile),
		string(rec.SrcCompression), string(rec.DstCompression),
		rec.Error, rec.DurationUS, rec.FrameIndex, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert copy record: %w", err)
	}
	return nil
}

// GetCopyRecord retrieves a copy record by ID.
func (s *SQLiteStore) GetCopyRecord(ctx context.Context, id string) (*model.CopyRecord, error) {
	rec := &model.CopyRecord{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, engine, policy, src_format, dst_format,
			src_tile, dst_tile, src_compression, dst_compression,
			error, duration_us, frame_index, created_at
		FROM copy_records WHERE id = ?`, id,
	).Scan(
		&rec.ID, &rec.Status, &rec.Engine, &rec.Policy, &rec.SrcFormat, &rec.DstFormat,
		&rec.SrcTile, &rec.DstTile, &rec.SrcCompression, &rec.DstCompression,
		&rec.Error, &rec.DurationUS, &rec.FrameIndex, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get copy record: %w", err)
	}
	return rec, nil
}

// ListCopyRecords returns a paginated list of copy records ordered by
// created_at DESC, along with the total count of all records.
func (s *SQLiteStore) ListCopyRecords(ctx context.Context, limit, offset int) ([]*model.CopyRecord, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM copy_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count copy records: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, status, engine, policy, src_format, dst_format,
			src_tile, dst_tile, src_compression, dst_compression,
			error, duration_us, frame_index, created_at
		FROM copy_records ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list copy records: %w", err)
	}
	defer rows.Close()

	var recs []*model.CopyRecord
	for rows.Next() {
		rec := &model.CopyRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.Status, &rec.Engine, &rec.Policy, &rec.SrcFormat, &rec.DstFormat,
			&rec.SrcTile, &rec.DstTile, &rec.SrcCompression, &rec.DstCompression,
			&rec.Error, &rec.DurationUS, &rec.FrameIndex, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan copy record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate copy records: %w", err)
	}

	return recs, total, nil
}

// GetCopyStats returns aggregate counts and the average dispatch duration.
func (s *SQLiteStore) GetCopyStats(ctx context.Context) (*CopyStats, error) {
	stats := &CopyStats{
		CountByStatus: make(map[string]int),
		CountByEngine: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM copy_records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.CountByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	engRows, err := s.db.QueryContext(ctx,
		`SELECT engine, COUNT(*) FROM copy_records WHERE engine != '' GROUP BY engine`)
	if err != nil {
		return nil, fmt.Errorf("stats by engine: %w", err)
	}
	defer engRows.Close()
	for engRows.Next() {
		var engine string
		var count int
		if err := engRows.Scan(&engine, &count); err != nil {
			return nil, fmt.Errorf("scan engine count: %w", err)
		}
		stats.CountByEngine[engine] = count
	}
	if err := engRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engine counts: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT AVG(duration_us) FROM copy_records WHERE status != ?`,
		model.StatusRejected,
	).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average duration: %w", err)
	}
	if avg.Valid {
		stats.AvgDurationUS = avg.Float64
	}

	return stats, nil
}
