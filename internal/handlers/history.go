package handlers

import (
	"net/http"

	"dashcam/internal/logger"
	"dashcam/internal/models"
	"dashcam/internal/repository"
	"dashcam/internal/services"
)

// GetInferencesHandler returns recent inference results. The in-memory
// history answers by default; ?source=journal reads the SQLite journal
// instead, optionally filtered with ?prediction= and bounded with ?limit=.
func GetInferencesHandler(pipeline *services.Pipeline, infRepo repository.InferenceRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("source") == "journal" {
			if infRepo == nil {
				http.Error(w, "Journal disabled", http.StatusNotFound)
				return
			}

			limit := atoiDefault(q.Get("limit"), 50)
			var (
				records []models.InferenceRecord
				err     error
			)
			if prediction := q.Get("prediction"); prediction != "" {
				records, err = infRepo.GetByPrediction(prediction, limit)
			} else {
				records, err = infRepo.GetRecent(limit)
			}
			if err != nil {
				logger.Error("Failed to read inference journal: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			writeJSON(w, http.StatusOK, map[string]interface{}{"inferences": records})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"inferences": pipeline.Inferences(),
		})
	}
}

// GetFramesHandler returns metadata for the retained captured frames,
// oldest first. Pixel data never leaves the server through this endpoint.
func GetFramesHandler(pipeline *services.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frames := pipeline.Frames()
		metas := make([]models.FrameMeta, 0, len(frames))
		for _, f := range frames {
			metas = append(metas, f.Meta())
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"frames": metas,
			"count":  len(metas),
		})
	}
}

// GetJournalStatsHandler summarizes the diagnostic journal.
func GetJournalStatsHandler(frameRepo repository.FrameRepository, infRepo repository.InferenceRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if frameRepo == nil || infRepo == nil {
			http.Error(w, "Journal disabled", http.StatusNotFound)
			return
		}

		frameCount, err := frameRepo.Count()
		if err != nil {
			logger.Error("Failed to count journaled frames: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		counts, err := infRepo.CountByPrediction()
		if err != nil {
			logger.Error("Failed to count journaled inferences: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"frames":      frameCount,
			"predictions": counts,
		})
	}
}
