package models

import "time"

// InferenceResult is the parsed output of one remote classification call.
type InferenceResult struct {
	PredictedLabel string             `json:"prediction"`
	Confidence     float64            `json:"confidence"`
	Probabilities  map[string]float64 `json:"all_probabilities,omitempty"`
	ObservedAt     time.Time          `json:"observed_at"`
}

// InferenceRecord is a journaled inference outcome row. Probabilities are
// stored as a JSON object string.
type InferenceRecord struct {
	ID            int64     `json:"id"`
	FrameID       string    `json:"frame_id"`
	Prediction    string    `json:"prediction"`
	Confidence    float64   `json:"confidence"`
	Probabilities string    `json:"probabilities,omitempty"`
	ObservedAt    time.Time `json:"observed_at"`
}
