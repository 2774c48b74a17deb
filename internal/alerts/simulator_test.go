package alerts

import (
	"sync"
	"testing"
	"time"

	"dashcam/internal/models"
)

func TestSimulator_EmitsWhileRecording(t *testing.T) {
	log := NewLog()
	sim := NewSimulator(log, time.Minute, 1.0, func() bool { return true })

	for i := 0; i < 3; i++ {
		sim.tick()
	}

	if log.Len() != 3 {
		t.Fatalf("Expected 3 alerts with chance 1.0, got %d", log.Len())
	}
}

func TestSimulator_SilentWhenNotRecording(t *testing.T) {
	log := NewLog()
	sim := NewSimulator(log, time.Minute, 1.0, func() bool { return false })

	for i := 0; i < 10; i++ {
		sim.tick()
	}

	if log.Len() != 0 {
		t.Fatalf("Expected no alerts while not recording, got %d", log.Len())
	}
}

func TestSimulator_ChanceZeroNeverEmits(t *testing.T) {
	log := NewLog()
	sim := NewSimulator(log, time.Minute, 0.0, func() bool { return true })

	for i := 0; i < 10; i++ {
		sim.tick()
	}

	if log.Len() != 0 {
		t.Fatalf("Expected no alerts with chance 0.0, got %d", log.Len())
	}
}

func TestSimulator_StartStop(t *testing.T) {
	log := NewLog()

	var mu sync.Mutex
	emitted := 0
	log.AddSink(SinkFunc(func(models.Alert) {
		mu.Lock()
		emitted++
		mu.Unlock()
	}))

	sim := NewSimulator(log, 5*time.Millisecond, 1.0, func() bool { return true })

	sim.Start()
	time.Sleep(30 * time.Millisecond)
	sim.Stop()

	mu.Lock()
	count := emitted
	mu.Unlock()
	if count == 0 {
		t.Error("Expected at least one alert from a running simulator")
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	after := emitted
	mu.Unlock()
	if after != count {
		t.Error("Simulator kept emitting after Stop")
	}
}
