package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/mapty/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	WorkoutsRead       int
	WorkoutsImported   int
	WorkoutsDuplicated int
	WorkoutsRejected   int
}

// Store is the workout list the import merges into.
type Store interface {
	Load(ctx context.Context) []models.Workout
	Save(ctx context.Context, workouts []models.Workout) error
}

// Importer reads browser local storage dumps and merges their workouts into
// the store.
type Importer struct {
	store  Store
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Import processes path, which is either a single dump file or a directory
// of *.json and *.json.gz dumps. Workouts whose id is already stored are
// skipped, so running an import twice is harmless.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := dumpFiles(path)
	if err != nil {
		return &imp.stats, err
	}

	existing := imp.store.Load(ctx)
	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[w.ID] = true
	}

	var added []models.Workout
	for _, f := range files {
		data, err := ReadDump(f)
		if err != nil {
			imp.log.Warn("read failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		records, err := ExtractRecords(data)
		if err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if len(records) == 0 {
			imp.stats.FilesSkipped++
			continue
		}

		imp.stats.FilesProcessed++
		for _, rec := range records {
			imp.stats.WorkoutsRead++
			w, err := models.FromRecord(rec)
			if err != nil {
				imp.log.Warn("rejected workout", "file", filepath.Base(f), "id", rec.ID, "error", err)
				imp.stats.WorkoutsRejected++
				continue
			}
			if seen[w.ID] {
				imp.stats.WorkoutsDuplicated++
				continue
			}
			seen[w.ID] = true
			added = append(added, w)
		}
	}

	imp.stats.WorkoutsImported = len(added)
	if imp.dryRun || len(added) == 0 {
		return &imp.stats, nil
	}

	sort.SliceStable(added, func(i, j int) bool {
		return added[i].CreatedAt.Before(added[j].CreatedAt)
	})
	merged := append(existing, added...)
	if err := imp.store.Save(ctx, merged); err != nil {
		return &imp.stats, fmt.Errorf("saving merged workouts: %w", err)
	}
	return &imp.stats, nil
}

func dumpFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz")) {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	return files, nil
}
