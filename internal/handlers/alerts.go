package handlers

import (
	"net/http"

	"dashcam/internal/services"
)

// GetAlertsHandler returns the retained alerts, newest first.
func GetAlertsHandler(pipeline *services.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"alerts": pipeline.Alerts(),
		})
	}
}
