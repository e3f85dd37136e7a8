package model

import "time"

// Copy record status constants.
const (
	// StatusRejected means the copy failed validation, capability evaluation,
	// or selection before any engine submission was attempted.
	StatusRejected = "rejected"
	// StatusFailed means an engine was chosen but the decompression pre-step
	// or the engine submission itself failed.
	StatusFailed = "failed"
	// StatusCompleted means the chosen engine's submission succeeded.
	StatusCompleted = "completed"
)

// CopyRecord is the persisted outcome of one copy invocation. Engine is empty
// for rejected copies. FrameIndex correlates the record with any debug surface
// dumps written for the same dispatch.
type CopyRecord struct {
	ID             string      `json:"id"`
	Status         string      `json:"status"`
	Engine         Engine      `json:"engine,omitempty"`
	Policy         Policy      `json:"policy"`
	SrcFormat      Format      `json:"src_format"`
	DstFormat      Format      `json:"dst_format"`
	SrcTile        TileMode    `json:"src_tile"`
	DstTile        TileMode    `json:"dst_tile"`
	SrcCompression Compression `json:"src_compression"`
	DstCompression Compression `json:"dst_compression"`
	Error          string      `json:"error,omitempty"`
	DurationUS     int64       `json:"duration_us"`
	FrameIndex     *int64      `json:"frame_index,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
