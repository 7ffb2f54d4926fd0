package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/importer"
	"github.com/claude/mapty/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dumpPath := flag.String("path", "", "path to a local storage dump (.json or .json.gz) or a directory of dumps (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dumpPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-import -config config.yaml -path /path/to/dump.json [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written to the store")
	}

	// Open the workout store
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	store := storage.NewWorkouts(kv, log,
		storage.WithKey(cfg.Storage.Key),
		storage.WithSaveAttempts(cfg.Storage.SaveAttempts, cfg.Storage.SaveBackoff),
	)

	// Run import
	imp := importer.New(store, log, *dryRun)
	stats, err := imp.Import(ctx, *dumpPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"workouts_read", stats.WorkoutsRead,
		"workouts_imported", stats.WorkoutsImported,
		"workouts_duplicated", stats.WorkoutsDuplicated,
		"workouts_rejected", stats.WorkoutsRejected,
	)
}
