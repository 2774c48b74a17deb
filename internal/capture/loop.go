// Package capture drives periodic still-frame acquisition from the active
// camera device.
package capture

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dashcam/internal/camera"
	"dashcam/internal/history"
	"dashcam/internal/logger"
	"dashcam/internal/models"
)

const (
	// DefaultInterval is the capture period observed on the device.
	DefaultInterval = time.Second

	// HistoryLimit caps the retained frames, FIFO eviction. Frames are kept
	// for diagnostics only and are never re-fed to inference.
	HistoryLimit = 100
)

// Analyzer consumes captured frames. The loop dispatches each frame on its
// own goroutine so a slow or hung analysis never delays the next tick.
type Analyzer interface {
	HandleFrame(frame models.CapturedFrame)
}

// Loop acquires one frame per tick from the active device. A tick with no
// ready device is a silent no-op; a capture failure is logged and otherwise
// ignored. Only inference failures raise alerts, and those belong to the
// analyzer.
type Loop struct {
	analyzer Analyzer
	interval time.Duration
	frames   *history.Capped[models.CapturedFrame]
	logger   *logger.Logger

	mu      sync.Mutex
	device  camera.Device
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewLoop(interval time.Duration, analyzer Analyzer, lg *logger.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		analyzer: analyzer,
		interval: interval,
		frames:   history.New[models.CapturedFrame](HistoryLimit),
		logger:   lg,
	}
}

// SetDevice swaps the active camera device. A nil device means no camera is
// ready and subsequent ticks no-op until one is attached.
func (l *Loop) SetDevice(d camera.Device) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.device = d
}

// Start begins ticking. Calling Start on a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	stop, done := l.stop, l.done
	l.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.tick()
			}
		}
	}()
}

// Stop halts the ticker and waits for the loop goroutine to exit. In-flight
// analyses are not aborted; discarding their results is the analyzer's job.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	close(stop)
	<-done
}

// tick attempts one acquisition. It never blocks on the network round trip:
// the frame is handed off on a fresh goroutine and successive ticks may have
// requests in flight concurrently.
func (l *Loop) tick() {
	l.mu.Lock()
	device := l.device
	l.mu.Unlock()

	if device == nil {
		return
	}

	image, err := device.Capture()
	if err != nil {
		l.logger.Warning("Frame capture failed: %v", err)
		return
	}

	frame := models.CapturedFrame{
		ID:         uuid.NewString(),
		Image:      image,
		CapturedAt: time.Now(),
	}
	l.frames.Append(frame)

	go l.analyzer.HandleFrame(frame)
}

// Frames returns a copy of the retained frame history, oldest first.
func (l *Loop) Frames() []models.CapturedFrame {
	return l.frames.Items()
}

// FrameCount returns the number of retained frames.
func (l *Loop) FrameCount() int {
	return l.frames.Len()
}
