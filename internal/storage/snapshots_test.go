package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dashcam/internal/logger"
	"dashcam/internal/models"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(t.TempDir())
}

func testFrame(id string) models.CapturedFrame {
	return models.CapturedFrame{
		ID:         id,
		Image:      []byte("jpeg bytes"),
		CapturedAt: time.Date(2024, 6, 1, 12, 30, 45, 123_000_000, time.UTC),
	}
}

func TestSnapshotService_AddAndFlush(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	svc := NewSnapshotService(dir, 5, testLogger(t))

	svc.Add(testFrame("abc"), "too_close")
	if svc.Pending() != 1 {
		t.Fatalf("Expected 1 pending snapshot, got %d", svc.Pending())
	}

	svc.Flush()

	if svc.Pending() != 0 {
		t.Errorf("Expected buffer cleared after flush, got %d", svc.Pending())
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read snapshot dir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(files))
	}

	want := "dashcam_2024-06-01_12-30-45.123_too_close_abc.jpg"
	if files[0].Name() != want {
		t.Errorf("Expected filename %q, got %q", want, files[0].Name())
	}
}

func TestSnapshotService_DropsWhenFull(t *testing.T) {
	svc := NewSnapshotService(t.TempDir(), 2, testLogger(t))

	for i := 0; i < 4; i++ {
		svc.Add(testFrame(string(rune('a'+i))), "danger")
	}

	if svc.Pending() != 2 {
		t.Errorf("Expected buffer capped at 2, got %d", svc.Pending())
	}
}

func TestSnapshotService_FlushEmptyIsNoOp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	svc := NewSnapshotService(dir, 2, testLogger(t))

	svc.Flush()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Flush with an empty buffer should not create the directory")
	}
}

func TestParseSnapshotFilename(t *testing.T) {
	snap := Snapshot{
		FrameID:    "abc123",
		Label:      "too_close",
		CapturedAt: time.Date(2024, 6, 1, 12, 30, 45, 123_000_000, time.UTC),
	}

	capturedAt, label, frameID, err := ParseSnapshotFilename(SnapshotFilename(snap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !capturedAt.Equal(snap.CapturedAt) {
		t.Errorf("Expected %v, got %v", snap.CapturedAt, capturedAt)
	}
	if label != "too_close" {
		t.Errorf("Expected label too_close, got %q", label)
	}
	if frameID != "abc123" {
		t.Errorf("Expected frame id abc123, got %q", frameID)
	}
}

func TestParseSnapshotFilename_Invalid(t *testing.T) {
	for _, name := range []string{"random.jpg", "dashcam_only.jpg", "notdashcam_2024-06-01_12-30-45.123_safe_x.jpg"} {
		if _, _, _, err := ParseSnapshotFilename(name); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}
