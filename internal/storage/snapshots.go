// Package storage buffers noteworthy frames and flushes them to disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dashcam/internal/logger"
	"dashcam/internal/models"
)

const timestampLayout = "2006-01-02_15-04-05.000"

// Snapshot is a frame queued for persistence together with the label that
// made it worth keeping.
type Snapshot struct {
	FrameID    string
	Label      string
	Image      []byte
	CapturedAt time.Time
}

// SnapshotService keeps a bounded buffer of snapshots and writes them out as
// JPEG files on a fixed interval. Frames offered beyond the buffer limit are
// dropped until the next flush.
type SnapshotService struct {
	dir    string
	limit  int
	logger *logger.Logger

	mu      sync.Mutex
	pending []Snapshot

	stop chan struct{}
	done chan struct{}
}

func NewSnapshotService(dir string, limit int, lg *logger.Logger) *SnapshotService {
	return &SnapshotService{
		dir:     dir,
		limit:   limit,
		logger:  lg,
		pending: make([]Snapshot, 0, limit),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run flushes the buffer on the given interval until Stop is called.
func (s *SnapshotService) Run(flushInterval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.Flush()
			return
		case <-ticker.C:
			s.Flush()
		}
	}
}

// Stop halts the flush loop after one final flush.
func (s *SnapshotService) Stop() {
	close(s.stop)
	<-s.done
}

// Add queues a frame for persistence. Silently drops when the buffer is full.
func (s *SnapshotService) Add(frame models.CapturedFrame, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) >= s.limit {
		s.logger.Warning("Snapshot buffer full (%d/%d), dropping frame %s", len(s.pending), s.limit, frame.ID)
		return
	}

	s.pending = append(s.pending, Snapshot{
		FrameID:    frame.ID,
		Label:      label,
		Image:      frame.Image,
		CapturedAt: frame.CapturedAt,
	})
}

// Pending returns the number of queued snapshots.
func (s *SnapshotService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush writes all queued snapshots to disk and clears the buffer.
func (s *SnapshotService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("Error creating snapshot directory: %v", err)
		return
	}

	for _, snap := range s.pending {
		fullpath := filepath.Join(s.dir, SnapshotFilename(snap))
		if err := os.WriteFile(fullpath, snap.Image, 0644); err != nil {
			s.logger.Error("Error saving snapshot %s: %v", fullpath, err)
			continue
		}
	}

	s.logger.Info("Flushed %d snapshots to disk", len(s.pending))
	s.pending = s.pending[:0]
}

// SnapshotFilename renders the on-disk name for a snapshot:
// dashcam_<timestamp>_<label>_<frame-id>.jpg
func SnapshotFilename(snap Snapshot) string {
	return fmt.Sprintf("dashcam_%s_%s_%s.jpg",
		snap.CapturedAt.Format(timestampLayout), snap.Label, snap.FrameID)
}

// ParseSnapshotFilename extracts metadata back out of a snapshot filename.
func ParseSnapshotFilename(filename string) (capturedAt time.Time, label, frameID string, err error) {
	name := strings.TrimSuffix(filename, ".jpg")
	parts := strings.Split(name, "_")

	// dashcam, date, time, label..., frame-id
	if len(parts) < 5 || parts[0] != "dashcam" {
		return time.Time{}, "", "", fmt.Errorf("invalid snapshot filename: %s", filename)
	}

	capturedAt, err = time.Parse(timestampLayout, parts[1]+"_"+parts[2])
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("failed to parse timestamp: %w", err)
	}

	// Labels may themselves contain underscores (e.g. too_close); the frame
	// id is always the final part.
	frameID = parts[len(parts)-1]
	label = strings.Join(parts[3:len(parts)-1], "_")

	return capturedAt, label, frameID, nil
}
