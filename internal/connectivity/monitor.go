// Package connectivity probes the classification endpoint's health and
// exposes a process-wide reachability flag.
package connectivity

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"dashcam/internal/alerts"
	"dashcam/internal/logger"
	"dashcam/internal/models"
)

const healthPath = "/health"

// Monitor performs health probes against the remote endpoint. The status it
// publishes is advisory only: the capture/inference pipeline attempts
// requests regardless and reports failures per attempt.
type Monitor struct {
	baseURL  string
	http     *http.Client
	interval time.Duration // 0 = startup probe only
	alertLog *alerts.Log
	logger   *logger.Logger

	connected atomic.Bool

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewMonitor(baseURL string, timeout, interval time.Duration, alertLog *alerts.Log, lg *logger.Logger) *Monitor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Monitor{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		interval: interval,
		alertLog: alertLog,
		logger:   lg,
	}
}

// Connected reports the last probe's outcome.
func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

// Probe performs one health check. Any transport error or non-200 status is
// uniformly "not connected". Every probe emits exactly one alert; repeated
// probes against a reachable endpoint each emit their own success alert.
func (m *Monitor) Probe(ctx context.Context) bool {
	ok := m.check(ctx)
	m.connected.Store(ok)

	if ok {
		m.logger.Info("Analysis server reachable at %s", m.baseURL)
		m.alertLog.Add(models.AlertSuccess, "Connected to analysis server")
	} else {
		m.logger.Warning("Analysis server unreachable at %s", m.baseURL)
		m.alertLog.Add(models.AlertDanger, "Analysis server unreachable")
	}
	return ok
}

func (m *Monitor) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Start probes once immediately and, when a re-probe interval is configured,
// keeps probing until Stop.
func (m *Monitor) Start() {
	m.Probe(context.Background())

	if m.interval <= 0 {
		return
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.Probe(context.Background())
			}
		}
	}()
}

// Stop halts periodic probing, if any.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}
