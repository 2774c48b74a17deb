package handlers

import (
	"net/http"
	"time"

	"dashcam/internal/camera"
	"dashcam/internal/services"
	"dashcam/internal/services/websocket"
)

// GetStatusHandler reports pipeline state for the dashboard header.
func GetStatusHandler(pipeline *services.Pipeline, hub *websocket.HubService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected":         pipeline.Connected(),
			"recording":         pipeline.Recording(),
			"recording_seconds": int64(pipeline.RecordingDuration() / time.Second),
			"frames":            pipeline.FrameCount(),
			"inferences":        pipeline.InferenceCount(),
			"viewers":           hub.GetClientCount(),
		})
	}
}

// ListCamerasHandler probes for attachable camera devices.
func ListCamerasHandler(maxID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices := camera.ListAvailable(maxID)
		if devices == nil {
			devices = []camera.Descriptor{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"cameras": devices})
	}
}
