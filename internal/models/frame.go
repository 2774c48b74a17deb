package models

import "time"

// CapturedFrame is one encoded still image acquired from a camera device.
// The JPEG bytes are handed to the inference client for the duration of one
// request and otherwise kept only in the capped frame history.
type CapturedFrame struct {
	ID         string    `json:"id"`
	Image      []byte    `json:"-"`
	CapturedAt time.Time `json:"captured_at"`
}

// FrameMeta is the JSON-friendly view of a frame without its pixel data.
type FrameMeta struct {
	ID         string    `json:"id"`
	SizeBytes  int       `json:"size_bytes"`
	CapturedAt time.Time `json:"captured_at"`
}

// Meta strips the image bytes for API responses.
func (f CapturedFrame) Meta() FrameMeta {
	return FrameMeta{
		ID:         f.ID,
		SizeBytes:  len(f.Image),
		CapturedAt: f.CapturedAt,
	}
}

// FrameRecord is a journaled frame metadata row.
type FrameRecord struct {
	ID         int64     `json:"id"`
	FrameID    string    `json:"frame_id"`
	SizeBytes  int64     `json:"size_bytes"`
	CapturedAt time.Time `json:"captured_at"`
}
