package alerts

import (
	"math/rand"
	"time"

	"dashcam/internal/models"
)

// simulatedEvents is the fixed set of demo alerts. The generator exists as
// placeholder content for the UI and is fully independent of the inference
// pipeline; disabling it does not touch the real alert path.
var simulatedEvents = []struct {
	Kind    models.AlertKind
	Message string
}{
	{models.AlertDanger, "Collision risk: vehicle too close"},
	{models.AlertWarning, "Lane departure detected"},
	{models.AlertWarning, "Pedestrian near roadway"},
	{models.AlertInfo, "Speed limit zone changed"},
	{models.AlertSuccess, "Following distance restored"},
}

// Simulator emits random demo alerts on a fixed period while the recording
// gate reports true. Each tick has a fixed chance of producing one alert
// through the shared Log.Add entry point.
type Simulator struct {
	log       *Log
	interval  time.Duration
	chance    float64
	recording func() bool
	rng       *rand.Rand

	stop chan struct{}
	done chan struct{}
}

func NewSimulator(log *Log, interval time.Duration, chance float64, recording func() bool) *Simulator {
	return &Simulator{
		log:       log,
		interval:  interval,
		chance:    chance,
		recording: recording,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the generator until Stop is called.
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
				s.tick()
			}
		}
	}()
}

// Stop halts the generator and waits for its goroutine to exit.
func (s *Simulator) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Simulator) tick() {
	if !s.recording() {
		return
	}
	if s.rng.Float64() >= s.chance {
		return
	}

	event := simulatedEvents[s.rng.Intn(len(simulatedEvents))]
	s.log.Add(event.Kind, event.Message)
}
