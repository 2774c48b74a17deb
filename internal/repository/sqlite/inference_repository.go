package sqlite

import (
	"database/sql"
	"fmt"

	"dashcam/internal/models"
)

// InferenceRepository implements repository.InferenceRepository for SQLite.
type InferenceRepository struct {
	db *DB
}

// NewInferenceRepository creates a new SQLite inference repository.
func NewInferenceRepository(db *DB) *InferenceRepository {
	return &InferenceRepository{db: db}
}

// Insert adds a new inference outcome record to the journal.
func (r *InferenceRepository) Insert(rec *models.InferenceRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO inferences (frame_id, prediction, confidence, probabilities, observed_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.FrameID, rec.Prediction, rec.Confidence, rec.Probabilities, rec.ObservedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert inference: %w", err)
	}

	return result.LastInsertId()
}

// GetRecent retrieves the most recent inference outcomes, newest first.
func (r *InferenceRepository) GetRecent(limit int) ([]models.InferenceRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, frame_id, prediction, confidence, COALESCE(probabilities, ''), observed_at
		FROM inferences ORDER BY observed_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inferences: %w", err)
	}
	defer rows.Close()

	return scanInferences(rows)
}

// GetByPrediction retrieves recent outcomes for one predicted label.
func (r *InferenceRepository) GetByPrediction(prediction string, limit int) ([]models.InferenceRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, frame_id, prediction, confidence, COALESCE(probabilities, ''), observed_at
		FROM inferences WHERE prediction = ? ORDER BY observed_at DESC LIMIT ?
	`, prediction, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inferences: %w", err)
	}
	defer rows.Close()

	return scanInferences(rows)
}

// CountByPrediction returns how many outcomes were journaled per label.
func (r *InferenceRepository) CountByPrediction() (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT prediction, COUNT(*) FROM inferences GROUP BY prediction
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count inferences: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var prediction string
		var count int
		if err := rows.Scan(&prediction, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[prediction] = count
	}

	return counts, rows.Err()
}

func scanInferences(rows *sql.Rows) ([]models.InferenceRecord, error) {
	var records []models.InferenceRecord
	for rows.Next() {
		var rec models.InferenceRecord
		if err := rows.Scan(&rec.ID, &rec.FrameID, &rec.Prediction, &rec.Confidence, &rec.Probabilities, &rec.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inference: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
