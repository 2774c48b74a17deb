package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dashcam/internal/alerts"
	"dashcam/internal/camera"
	"dashcam/internal/config"
	"dashcam/internal/connectivity"
	"dashcam/internal/inference"
	"dashcam/internal/logger"
	"dashcam/internal/models"
	"dashcam/internal/mqtt"
	"dashcam/internal/repository"
	"dashcam/internal/repository/sqlite"
	"dashcam/internal/routes"
	"dashcam/internal/services"
	"dashcam/internal/services/websocket"
	"dashcam/internal/storage"
	"dashcam/internal/telemetry"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	alertLog  *alerts.Log
	hub       *websocket.HubService
	pipeline  *services.Pipeline
	telemetry *telemetry.Simulator
	snapshots *storage.SnapshotService
	journal   *sqlite.DB
	publisher *mqtt.Publisher
	frameRepo *sqlite.FrameRepository
	infRepo   *sqlite.InferenceRepository
}

func NewApp() *App {
	cfg := config.Load()
	lg := logger.New(cfg.LogDirectory)

	alertLog := alerts.NewLog()
	hub := websocket.NewHubService(lg)

	// Every alert reaches connected UI clients through the hub.
	alertLog.AddSink(alerts.SinkFunc(func(a models.Alert) {
		hub.BroadcastEvent("alert", a)
	}))

	a := &App{
		config:   cfg,
		logger:   lg,
		alertLog: alertLog,
		hub:      hub,
	}

	if cfg.MQTTBroker != "" {
		publisher, err := mqtt.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, lg)
		if err != nil {
			lg.Warning("MQTT publisher disabled: %v", err)
		} else {
			a.publisher = publisher
			alertLog.AddSink(publisher)
		}
	}

	if cfg.JournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0755); err != nil {
			lg.Warning("Journal disabled, cannot create directory: %v", err)
		} else if db, err := sqlite.New(cfg.JournalPath); err != nil {
			lg.Warning("Journal disabled: %v", err)
		} else {
			a.journal = db
			a.frameRepo = sqlite.NewFrameRepository(db)
			a.infRepo = sqlite.NewInferenceRepository(db)
		}
	}

	a.snapshots = storage.NewSnapshotService(cfg.SnapshotDirectory, cfg.SnapshotLimit, lg)

	client := inference.NewClient(cfg.InferenceURL, time.Duration(cfg.RequestTimeoutSec)*time.Second)
	monitor := connectivity.NewMonitor(
		cfg.InferenceURL,
		10*time.Second,
		time.Duration(cfg.HealthIntervalSec)*time.Second,
		alertLog,
		lg,
	)

	device := openCamera(cfg, lg)

	a.pipeline = services.NewPipeline(
		cfg,
		device,
		alertLog,
		client,
		monitor,
		a.frameRepository(),
		a.inferenceRepository(),
		a.snapshots,
		lg,
	)

	a.telemetry = telemetry.NewSimulator(hub, a.pipeline, telemetry.DefaultInterval)

	return a
}

// openCamera attaches the configured device. A missing camera is not fatal:
// capture ticks no-op silently until a device is available.
func openCamera(cfg *config.Config, lg *logger.Logger) camera.Device {
	device, err := camera.Open(camera.Descriptor{ID: cfg.CameraID, Name: fmt.Sprintf("video%d", cfg.CameraID)})
	if err != nil {
		lg.Warning("No camera device ready: %v", err)
		return nil
	}
	lg.Info("Camera device %d opened", cfg.CameraID)
	return device
}

// The typed-nil checks keep a disabled journal from leaking a non-nil
// interface into the pipeline and handlers.
func (a *App) frameRepository() repository.FrameRepository {
	if a.frameRepo == nil {
		return nil
	}
	return a.frameRepo
}

func (a *App) inferenceRepository() repository.InferenceRepository {
	if a.infRepo == nil {
		return nil
	}
	return a.infRepo
}

func (a *App) Run() error {
	// Start background services
	go a.hub.Run()
	go a.snapshots.Run(time.Duration(a.config.SnapshotFlushInterval) * time.Second)
	a.pipeline.Start()
	a.telemetry.Start()

	router := routes.SetupRoutes(a.pipeline, a.hub, a.frameRepository(), a.inferenceRepository(), a.config, a.logger)

	a.logger.Info("Dashcam server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Analysis endpoint: %s", a.config.InferenceURL)
	a.logger.Info("Snapshots: %s", a.config.SnapshotDirectory)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Shutdown stops the pipeline and releases held resources.
func (a *App) Shutdown() {
	a.telemetry.Stop()
	a.pipeline.Stop()
	a.snapshots.Stop()
	a.hub.Stop()
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.journal != nil {
		a.journal.Close()
	}
	a.logger.Info("Shutdown complete")
}
