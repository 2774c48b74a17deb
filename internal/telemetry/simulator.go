// Package telemetry produces the simulated speed readout and recording clock
// shown by the UI. Like the demo alert generator it is placeholder content,
// kept apart from the real pipeline so a production build can drop it whole.
package telemetry

import (
	"math/rand"
	"time"
)

const (
	// DefaultInterval is the readout update period.
	DefaultInterval = time.Second

	maxSpeedKmh = 130.0
	maxStepKmh  = 3.0
)

// Reading is one telemetry sample broadcast to UI clients.
type Reading struct {
	SpeedKmh         float64 `json:"speed_kmh"`
	RecordingSeconds int64   `json:"recording_seconds"`
	Recording        bool    `json:"recording"`
}

// Broadcaster delivers readings to connected clients.
type Broadcaster interface {
	BroadcastEvent(eventType string, data interface{})
}

// RecordingState reports the pipeline's recording toggle and elapsed time.
type RecordingState interface {
	Recording() bool
	RecordingDuration() time.Duration
}

// Simulator random-walks a speed value and ticks the recording clock.
type Simulator struct {
	hub      Broadcaster
	state    RecordingState
	interval time.Duration
	rng      *rand.Rand
	speed    float64

	stop chan struct{}
	done chan struct{}
}

func NewSimulator(hub Broadcaster, state RecordingState, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		hub:      hub,
		state:    state,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		speed:    50,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start broadcasts a reading per tick until Stop.
func (s *Simulator) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.hub.BroadcastEvent("telemetry", s.next())
			}
		}
	}()
}

// Stop halts the simulator and waits for its goroutine.
func (s *Simulator) Stop() {
	close(s.stop)
	<-s.done
}

// next advances the random walk and snapshots the recording clock.
func (s *Simulator) next() Reading {
	s.speed += s.rng.Float64()*2*maxStepKmh - maxStepKmh
	if s.speed < 0 {
		s.speed = 0
	}
	if s.speed > maxSpeedKmh {
		s.speed = maxSpeedKmh
	}

	return Reading{
		SpeedKmh:         s.speed,
		RecordingSeconds: int64(s.state.RecordingDuration().Seconds()),
		Recording:        s.state.Recording(),
	}
}
