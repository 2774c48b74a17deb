package telemetry

import (
	"sync"
	"testing"
	"time"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	readings []Reading
}

func (b *recordingBroadcaster) BroadcastEvent(eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if eventType == "telemetry" {
		b.readings = append(b.readings, data.(Reading))
	}
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.readings)
}

type fixedState struct {
	recording bool
	elapsed   time.Duration
}

func (s *fixedState) Recording() bool                  { return s.recording }
func (s *fixedState) RecordingDuration() time.Duration { return s.elapsed }

func TestSimulator_BroadcastsReadings(t *testing.T) {
	hub := &recordingBroadcaster{}
	state := &fixedState{recording: true, elapsed: 42 * time.Second}

	sim := NewSimulator(hub, state, 5*time.Millisecond)
	sim.Start()
	time.Sleep(60 * time.Millisecond)
	sim.Stop()

	if hub.count() == 0 {
		t.Fatal("Expected at least one telemetry reading")
	}

	hub.mu.Lock()
	first := hub.readings[0]
	hub.mu.Unlock()

	if !first.Recording {
		t.Error("Expected reading to report recording state")
	}
	if first.RecordingSeconds != 42 {
		t.Errorf("Expected 42 recording seconds, got %d", first.RecordingSeconds)
	}
}

func TestSimulator_SpeedStaysInRange(t *testing.T) {
	hub := &recordingBroadcaster{}
	sim := NewSimulator(hub, &fixedState{}, time.Millisecond)
	sim.Start()
	time.Sleep(80 * time.Millisecond)
	sim.Stop()

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, r := range hub.readings {
		if r.SpeedKmh < 0 || r.SpeedKmh > maxSpeedKmh {
			t.Fatalf("Speed %f out of range", r.SpeedKmh)
		}
	}
}

func TestSimulator_StopHalts(t *testing.T) {
	hub := &recordingBroadcaster{}
	sim := NewSimulator(hub, &fixedState{}, time.Millisecond)
	sim.Start()
	time.Sleep(20 * time.Millisecond)
	sim.Stop()

	n := hub.count()
	time.Sleep(20 * time.Millisecond)
	if hub.count() != n {
		t.Error("Expected no readings after Stop")
	}
}
