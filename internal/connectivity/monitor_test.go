package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashcam/internal/alerts"
	"dashcam/internal/logger"
	"dashcam/internal/models"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(t.TempDir())
}

func TestMonitor_ProbeReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected /health path, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	log := alerts.NewLog()
	m := NewMonitor(srv.URL, time.Second, 0, log, testLogger(t))

	if !m.Probe(context.Background()) {
		t.Fatal("Expected probe to succeed")
	}
	if !m.Connected() {
		t.Error("Connected should report true after a successful probe")
	}

	entries := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected exactly 1 alert, got %d", len(entries))
	}
	if entries[0].Kind != models.AlertSuccess {
		t.Errorf("Expected success alert, got %s", entries[0].Kind)
	}
}

func TestMonitor_ProbeUnreachableStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log := alerts.NewLog()
	m := NewMonitor(srv.URL, time.Second, 0, log, testLogger(t))

	if m.Probe(context.Background()) {
		t.Fatal("Expected probe to fail on non-200")
	}
	if m.Connected() {
		t.Error("Connected should report false")
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Kind != models.AlertDanger {
		t.Fatalf("Expected exactly 1 danger alert, got %v", entries)
	}
}

func TestMonitor_ProbeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	log := alerts.NewLog()
	m := NewMonitor(srv.URL, time.Second, 0, log, testLogger(t))

	if m.Probe(context.Background()) {
		t.Fatal("Expected probe to fail on refused connection")
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Kind != models.AlertDanger {
		t.Fatalf("Expected exactly 1 danger alert, got %v", entries)
	}
}

func TestMonitor_ProbeIdempotence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	log := alerts.NewLog()
	m := NewMonitor(srv.URL, time.Second, 0, log, testLogger(t))

	for i := 0; i < 2; i++ {
		if !m.Probe(context.Background()) {
			t.Fatalf("Probe %d should succeed", i+1)
		}
		if !m.Connected() {
			t.Fatalf("Connected should be true after probe %d", i+1)
		}
	}

	// No deduplication across calls: one success alert per probe.
	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 alerts for 2 probes, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Kind != models.AlertSuccess {
			t.Errorf("Expected success alerts only, got %s", e.Kind)
		}
	}
}

func TestMonitor_StartProbesImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	log := alerts.NewLog()
	m := NewMonitor(srv.URL, time.Second, 0, log, testLogger(t))

	m.Start()
	defer m.Stop()

	if !m.Connected() {
		t.Error("Start should run an immediate probe")
	}
	if log.Len() != 1 {
		t.Errorf("Expected 1 alert from the startup probe, got %d", log.Len())
	}
}
