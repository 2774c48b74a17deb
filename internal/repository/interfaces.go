package repository

import "dashcam/internal/models"

// FrameRepository persists captured-frame metadata for diagnostics. The
// in-memory capped histories remain the behavioral source of truth; the
// journal is strictly additive.
type FrameRepository interface {
	Insert(rec *models.FrameRecord) (int64, error)
	GetRecent(limit int) ([]models.FrameRecord, error)
	Count() (int, error)
}

// InferenceRepository persists successful inference outcomes.
type InferenceRepository interface {
	Insert(rec *models.InferenceRecord) (int64, error)
	GetRecent(limit int) ([]models.InferenceRecord, error)
	GetByPrediction(prediction string, limit int) ([]models.InferenceRecord, error)
	CountByPrediction() (map[string]int, error)
}
