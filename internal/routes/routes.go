package routes

import (
	"net/http"

	"dashcam/internal/config"
	"dashcam/internal/handlers"
	"dashcam/internal/logger"
	"dashcam/internal/middleware"
	"dashcam/internal/repository"
	"dashcam/internal/services"
	"dashcam/internal/services/websocket"
)

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(
	pipeline *services.Pipeline,
	hub *websocket.HubService,
	frameRepo repository.FrameRepository,
	infRepo repository.InferenceRepository,
	cfg *config.Config,
	logger *logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// API endpoints
	mux.HandleFunc("/api/events", handlers.EventsWebsocketHandler(hub, logger))
	mux.HandleFunc("/api/alerts", handlers.GetAlertsHandler(pipeline))
	mux.HandleFunc("/api/inferences", handlers.GetInferencesHandler(pipeline, infRepo, logger))
	mux.HandleFunc("/api/frames", handlers.GetFramesHandler(pipeline))
	mux.HandleFunc("/api/status", handlers.GetStatusHandler(pipeline, hub))
	mux.HandleFunc("/api/stats", handlers.GetJournalStatsHandler(frameRepo, infRepo, logger))
	mux.HandleFunc("/api/cameras", handlers.ListCamerasHandler(cfg.CameraID + 4))
	mux.HandleFunc("/api/recording/start", handlers.StartRecordingHandler(pipeline))
	mux.HandleFunc("/api/recording/stop", handlers.StopRecordingHandler(pipeline))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowLogsHandler(cfg, "info.log"))
	mux.HandleFunc("/logs/warning", handlers.ShowLogsHandler(cfg, "warning.log"))
	mux.HandleFunc("/logs/error", handlers.ShowLogsHandler(cfg, "error.log"))
	mux.HandleFunc("/logs/info/clear", handlers.ClearLogsHandler(logger, "info.log"))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearLogsHandler(logger, "warning.log"))
	mux.HandleFunc("/logs/error/clear", handlers.ClearLogsHandler(logger, "error.log"))

	// Auth endpoints
	mux.HandleFunc("/auth/login", handlers.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handlers.LogoutHandler)

	// Apply middleware
	return middleware.AuthMiddleware(mux)
}
