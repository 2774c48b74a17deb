// Package alerts owns the bounded driver alert log and its fanout. Every
// alert in the system, whether produced by the inference pipeline, the
// connectivity probe or the demo generator, enters through Log.Add.
package alerts

import (
	"sync"
	"time"

	"dashcam/internal/models"
)

// LogLimit is the maximum number of alerts retained, newest first.
const LogLimit = 5

// Sink receives every alert appended to the log. Sinks are additive
// observers; the log remains the owner of record.
type Sink interface {
	PublishAlert(alert models.Alert)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(alert models.Alert)

func (f SinkFunc) PublishAlert(alert models.Alert) { f(alert) }

// Log is the bounded, newest-first alert log. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []models.Alert
	lastID  int64
	sinks   []Sink
}

func NewLog() *Log {
	return &Log{
		entries: make([]models.Alert, 0, LogLimit),
	}
}

// AddSink registers an observer for subsequently appended alerts.
func (l *Log) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Add creates an alert, prepends it and truncates the log to LogLimit
// entries. No deduplication or rate limiting is applied; every call produces
// exactly one new entry. The ID is derived from the creation time and bumped
// past the previous one so two alerts in the same tick never collide.
func (l *Log) Add(kind models.AlertKind, message string) models.Alert {
	now := time.Now()

	l.mu.Lock()
	id := now.UnixNano()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	alert := models.Alert{
		ID:        id,
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
	}

	l.entries = append([]models.Alert{alert}, l.entries...)
	if len(l.entries) > LogLimit {
		l.entries = l.entries[:LogLimit]
	}

	sinks := make([]Sink, len(l.sinks))
	copy(sinks, l.sinks)
	l.mu.Unlock()

	for _, s := range sinks {
		s.PublishAlert(alert)
	}

	return alert
}

// Entries returns a copy of the current alerts, newest first.
func (l *Log) Entries() []models.Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Alert, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the current number of retained alerts.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
