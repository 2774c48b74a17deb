// Command migrate backfills the diagnostic journal from a snapshot
// directory, so frames captured before the journal existed still show
// up in the history endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dashcam/internal/models"
	"dashcam/internal/repository/sqlite"
	"dashcam/internal/storage"
)

func main() {
	snapshotsDir := flag.String("snapshots", "data/snapshots", "Directory containing snapshot files")
	dbPath := flag.String("db", "data/journal.db", "Journal database path")
	flag.Parse()

	fmt.Printf("Migrating snapshots from %s to journal %s\n", *snapshotsDir, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create journal directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()
	frames := sqlite.NewFrameRepository(db)

	files, err := os.ReadDir(*snapshotsDir)
	if err != nil {
		log.Fatalf("Failed to read snapshot directory: %v", err)
	}

	inserted := 0
	skipped := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".jpg" {
			continue
		}

		capturedAt, _, frameID, err := storage.ParseSnapshotFilename(file.Name())
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		info, err := file.Info()
		if err != nil {
			log.Printf("Failed to get info for %s: %v", file.Name(), err)
			skipped++
			continue
		}

		rec := &models.FrameRecord{
			FrameID:    frameID,
			SizeBytes:  info.Size(),
			CapturedAt: capturedAt,
		}
		if _, err := frames.Insert(rec); err != nil {
			log.Printf("Failed to insert %s: %v", file.Name(), err)
			skipped++
			continue
		}
		inserted++
	}

	if inserted == 0 && skipped == 0 {
		fmt.Println("No snapshots found to migrate")
		return
	}

	fmt.Printf("Migrated %d frames into journal\n", inserted)
	if skipped > 0 {
		fmt.Printf("Skipped %d files (invalid name or insert error)\n", skipped)
	}

	count, err := frames.Count()
	if err == nil {
		fmt.Printf("Journal now holds %d frames\n", count)
	}
}
