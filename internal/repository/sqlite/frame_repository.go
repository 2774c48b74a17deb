package sqlite

import (
	"fmt"

	"dashcam/internal/models"
)

// FrameRepository implements repository.FrameRepository for SQLite.
type FrameRepository struct {
	db *DB
}

// NewFrameRepository creates a new SQLite frame repository.
func NewFrameRepository(db *DB) *FrameRepository {
	return &FrameRepository{db: db}
}

// Insert adds a new frame metadata record to the journal.
func (r *FrameRepository) Insert(rec *models.FrameRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO frames (frame_id, captured_at, size_bytes)
		VALUES (?, ?, ?)
	`, rec.FrameID, rec.CapturedAt, rec.SizeBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to insert frame: %w", err)
	}

	return result.LastInsertId()
}

// GetRecent retrieves the most recently captured frames, newest first.
func (r *FrameRepository) GetRecent(limit int) ([]models.FrameRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, frame_id, captured_at, size_bytes
		FROM frames ORDER BY captured_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var records []models.FrameRecord
	for rows.Next() {
		var rec models.FrameRecord
		if err := rows.Scan(&rec.ID, &rec.FrameID, &rec.CapturedAt, &rec.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the total number of journaled frames.
func (r *FrameRepository) Count() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}
