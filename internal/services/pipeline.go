// Package services wires the capture loop, inference client, alert fanout
// and connectivity monitor into one pipeline with an explicit lifecycle.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dashcam/internal/alerts"
	"dashcam/internal/camera"
	"dashcam/internal/capture"
	"dashcam/internal/config"
	"dashcam/internal/connectivity"
	"dashcam/internal/history"
	"dashcam/internal/inference"
	"dashcam/internal/logger"
	"dashcam/internal/models"
	"dashcam/internal/repository"
	"dashcam/internal/storage"
)

// safeLabel is the prediction that does not warrant keeping a snapshot.
const safeLabel = "safe"

// Pipeline owns the pipeline state end to end: the alert log, the capped
// frame and inference histories, the recording toggle and the connectivity
// status, each mutated through this controller rather than ambient globals.
// Multiple independent pipelines can coexist.
type Pipeline struct {
	alertLog   *alerts.Log
	client     *inference.Client
	loop       *capture.Loop
	monitor    *connectivity.Monitor
	simulator  *alerts.Simulator
	snapshots  *storage.SnapshotService
	frameRepo  repository.FrameRepository
	infRepo    repository.InferenceRepository
	inferences *history.Capped[models.InferenceResult]
	logger     *logger.Logger

	closed    atomic.Bool
	recording atomic.Bool

	mu          sync.Mutex
	recordingAt time.Time
}

// NewPipeline assembles a pipeline. The monitor, snapshot service and
// repositories may be nil, which disables the respective side channel.
// A nil device means no camera is ready; capture ticks no-op until one is
// attached via SetDevice.
func NewPipeline(
	cfg *config.Config,
	device camera.Device,
	alertLog *alerts.Log,
	client *inference.Client,
	monitor *connectivity.Monitor,
	frameRepo repository.FrameRepository,
	infRepo repository.InferenceRepository,
	snapshots *storage.SnapshotService,
	lg *logger.Logger,
) *Pipeline {
	p := &Pipeline{
		alertLog:   alertLog,
		client:     client,
		monitor:    monitor,
		snapshots:  snapshots,
		frameRepo:  frameRepo,
		infRepo:    infRepo,
		inferences: history.New[models.InferenceResult](inference.HistoryLimit),
		logger:     lg,
	}

	p.loop = capture.NewLoop(time.Duration(cfg.CaptureIntervalMs)*time.Millisecond, p, lg)
	p.loop.SetDevice(device)

	if cfg.SimulatedAlerts {
		p.simulator = alerts.NewSimulator(
			alertLog,
			time.Duration(cfg.SimulatedAlertIntervalMs)*time.Millisecond,
			cfg.SimulatedAlertChance,
			p.Recording,
		)
	}

	return p
}

// Start probes connectivity once (and periodically if configured) and begins
// capture ticks and the demo generator.
func (p *Pipeline) Start() {
	if p.monitor != nil {
		p.monitor.Start()
	}
	p.loop.Start()
	if p.simulator != nil {
		p.simulator.Start()
	}
	p.logger.Info("Pipeline started")
}

// Stop tears the pipeline down. In-flight inference requests are not
// aborted; their results are discarded by the liveness guard in HandleFrame.
func (p *Pipeline) Stop() {
	p.closed.Store(true)
	p.loop.Stop()
	if p.simulator != nil {
		p.simulator.Stop()
	}
	if p.monitor != nil {
		p.monitor.Stop()
	}
	p.logger.Info("Pipeline stopped")
}

// SetDevice swaps the active camera device.
func (p *Pipeline) SetDevice(d camera.Device) {
	p.loop.SetDevice(d)
}

// HandleFrame round-trips one captured frame through the classification
// service and fans the outcome out as alerts. Implements capture.Analyzer;
// the capture loop invokes it on a fresh goroutine per frame, so concurrent
// calls are expected and out-of-order completions append in completion
// order. Every failure path terminates here: nothing propagates upward.
func (p *Pipeline) HandleFrame(frame models.CapturedFrame) {
	if p.closed.Load() {
		return
	}

	result, err := p.client.Analyze(context.Background(), frame)

	// Teardown may have happened while the request was in flight; the
	// result is discarded without touching histories or the alert log.
	if p.closed.Load() {
		return
	}

	if err != nil {
		p.logger.Warning("Inference failed for frame %s: %v", frame.ID, err)
		p.alertLog.Add(models.AlertDanger, failureMessage(err))
		return
	}

	p.inferences.Append(result)

	p.alertLog.Add(models.AlertInfo,
		fmt.Sprintf("%s (%.1f%%)", result.PredictedLabel, result.Confidence*100))
	for label, prob := range result.Probabilities {
		p.alertLog.Add(models.AlertInfo, fmt.Sprintf("%s: %.1f%%", label, prob*100))
	}

	if p.snapshots != nil && result.PredictedLabel != safeLabel {
		p.snapshots.Add(frame, result.PredictedLabel)
	}

	p.journal(frame, result)
}

// journal persists the outcome for diagnostics. Journal errors are logged
// and never affect the pipeline.
func (p *Pipeline) journal(frame models.CapturedFrame, result models.InferenceResult) {
	if p.frameRepo != nil {
		rec := &models.FrameRecord{
			FrameID:    frame.ID,
			SizeBytes:  int64(len(frame.Image)),
			CapturedAt: frame.CapturedAt,
		}
		if _, err := p.frameRepo.Insert(rec); err != nil {
			p.logger.Error("Failed to journal frame %s: %v", frame.ID, err)
		}
	}

	if p.infRepo != nil {
		var probs string
		if len(result.Probabilities) > 0 {
			if data, err := json.Marshal(result.Probabilities); err == nil {
				probs = string(data)
			}
		}
		rec := &models.InferenceRecord{
			FrameID:       frame.ID,
			Prediction:    result.PredictedLabel,
			Confidence:    result.Confidence,
			Probabilities: probs,
			ObservedAt:    result.ObservedAt,
		}
		if _, err := p.infRepo.Insert(rec); err != nil {
			p.logger.Error("Failed to journal inference for frame %s: %v", frame.ID, err)
		}
	}
}

// failureMessage maps a classification error onto the single danger alert
// raised for the attempt. Server and transport failures differ in message
// text only.
func failureMessage(err error) string {
	var serverErr *inference.ServerError
	if errors.As(err, &serverErr) {
		return fmt.Sprintf("Analysis failed: server returned HTTP %d", serverErr.StatusCode)
	}
	if errors.Is(err, inference.ErrMalformedResponse) {
		return "Analysis failed: unexpected response from analysis server"
	}
	return "Analysis failed: network error reaching analysis server"
}

// StartRecording toggles recording mode on. The demo alert generator is
// active only while recording.
func (p *Pipeline) StartRecording() {
	if p.recording.CompareAndSwap(false, true) {
		p.mu.Lock()
		p.recordingAt = time.Now()
		p.mu.Unlock()
		p.logger.Info("Recording started")
	}
}

// StopRecording toggles recording mode off.
func (p *Pipeline) StopRecording() {
	if p.recording.CompareAndSwap(true, false) {
		p.logger.Info("Recording stopped")
	}
}

// Recording reports whether recording mode is on.
func (p *Pipeline) Recording() bool {
	return p.recording.Load()
}

// RecordingDuration returns how long the current recording has been running,
// or zero when not recording.
func (p *Pipeline) RecordingDuration() time.Duration {
	if !p.recording.Load() {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.recordingAt)
}

// Alerts returns the retained alerts, newest first.
func (p *Pipeline) Alerts() []models.Alert {
	return p.alertLog.Entries()
}

// Inferences returns the retained inference results, oldest first.
func (p *Pipeline) Inferences() []models.InferenceResult {
	return p.inferences.Items()
}

// InferenceCount returns the number of retained inference results.
func (p *Pipeline) InferenceCount() int {
	return p.inferences.Len()
}

// Frames returns the retained captured frames, oldest first.
func (p *Pipeline) Frames() []models.CapturedFrame {
	return p.loop.Frames()
}

// FrameCount returns the number of retained frames.
func (p *Pipeline) FrameCount() int {
	return p.loop.FrameCount()
}

// Connected reports the connectivity monitor's last probe outcome.
func (p *Pipeline) Connected() bool {
	if p.monitor == nil {
		return false
	}
	return p.monitor.Connected()
}
