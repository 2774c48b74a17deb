package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashcam/internal/alerts"
	"dashcam/internal/config"
	"dashcam/internal/inference"
	"dashcam/internal/logger"
	"dashcam/internal/models"
	"dashcam/internal/services"
	"dashcam/internal/services/websocket"
)

func setupTestPipeline(t *testing.T) (*services.Pipeline, *alerts.Log, *websocket.HubService) {
	t.Helper()

	lg := logger.New(t.TempDir())
	alertLog := alerts.NewLog()
	client := inference.NewClient("http://127.0.0.1:0", time.Second)
	cfg := &config.Config{
		CaptureIntervalMs: 1000,
		SimulatedAlerts:   false,
	}

	pipeline := services.NewPipeline(cfg, nil, alertLog, client, nil, nil, nil, nil, lg)
	hub := websocket.NewHubService(lg)

	return pipeline, alertLog, hub
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestGetAlertsHandler(t *testing.T) {
	pipeline, alertLog, _ := setupTestPipeline(t)

	alertLog.Add(models.AlertInfo, "first")
	alertLog.Add(models.AlertDanger, "second")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	GetAlertsHandler(pipeline)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	list, ok := body["alerts"].([]interface{})
	if !ok {
		t.Fatalf("Expected alerts array, got %T", body["alerts"])
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(list))
	}

	newest := list[0].(map[string]interface{})
	if newest["message"] != "second" {
		t.Errorf("Expected newest alert first, got %v", newest["message"])
	}
}

func TestGetFramesHandler_Empty(t *testing.T) {
	pipeline, _, _ := setupTestPipeline(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/frames", nil)
	GetFramesHandler(pipeline)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if count := body["count"].(float64); count != 0 {
		t.Errorf("Expected count 0, got %v", count)
	}
	if list, ok := body["frames"].([]interface{}); !ok || len(list) != 0 {
		t.Errorf("Expected empty frames array, got %v", body["frames"])
	}
}

func TestGetInferencesHandler_JournalDisabled(t *testing.T) {
	pipeline, _, _ := setupTestPipeline(t)
	lg := logger.New(t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/inferences?source=journal", nil)
	GetInferencesHandler(pipeline, nil, lg)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when journal disabled, got %d", rec.Code)
	}
}

func TestGetInferencesHandler_MemoryHistory(t *testing.T) {
	pipeline, _, _ := setupTestPipeline(t)
	lg := logger.New(t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/inferences", nil)
	GetInferencesHandler(pipeline, nil, lg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
}

func TestRecordingHandlers(t *testing.T) {
	pipeline, _, _ := setupTestPipeline(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recording/start", nil)
	StartRecordingHandler(pipeline)(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/recording/start", nil)
	StartRecordingHandler(pipeline)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !pipeline.Recording() {
		t.Error("Expected pipeline to be recording after start")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/recording/stop", nil)
	StopRecordingHandler(pipeline)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if pipeline.Recording() {
		t.Error("Expected pipeline to stop recording after stop")
	}
}

func TestGetStatusHandler(t *testing.T) {
	pipeline, _, hub := setupTestPipeline(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	GetStatusHandler(pipeline, hub)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	for _, key := range []string{"connected", "recording", "recording_seconds", "frames", "inferences", "viewers"} {
		if _, ok := body[key]; !ok {
			t.Errorf("Expected status field %q", key)
		}
	}
	if body["connected"] != false {
		t.Errorf("Expected connected false without monitor, got %v", body["connected"])
	}
}
