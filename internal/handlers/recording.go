package handlers

import (
	"net/http"

	"dashcam/internal/services"
)

// StartRecordingHandler toggles recording mode on.
func StartRecordingHandler(pipeline *services.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		pipeline.StartRecording()
		writeJSON(w, http.StatusOK, map[string]interface{}{"recording": true})
	}
}

// StopRecordingHandler toggles recording mode off.
func StopRecordingHandler(pipeline *services.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		pipeline.StopRecording()
		writeJSON(w, http.StatusOK, map[string]interface{}{"recording": false})
	}
}
