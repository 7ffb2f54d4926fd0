package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/mapty/internal/models"
)

// DefaultKey is the key the workout list is stored under.
const DefaultKey = "workouts"

// Workouts is the persistence gateway for the full workout list. The list is
// always read and written as a whole under a single key.
type Workouts struct {
	kv       KV
	key      string
	log      *slog.Logger
	attempts int
	backoff  time.Duration
}

// Option configures a Workouts gateway.
type Option func(*Workouts)

// WithKey stores the list under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(g *Workouts) {
		if key != "" {
			g.key = key
		}
	}
}

// WithSaveAttempts retries a failed save up to attempts times in total,
// doubling the wait after each failure starting from backoff.
func WithSaveAttempts(attempts int, backoff time.Duration) Option {
	return func(g *Workouts) {
		if attempts > 0 {
			g.attempts = attempts
		}
		g.backoff = backoff
	}
}

// NewWorkouts creates a gateway over kv.
func NewWorkouts(kv KV, log *slog.Logger, opts ...Option) *Workouts {
	g := &Workouts{kv: kv, key: DefaultKey, log: log, attempts: 1}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load reads the stored list. A missing, unreadable or corrupt value is
// treated as no history and never reported to the caller; records that fail
// to rebuild are skipped.
func (g *Workouts) Load(ctx context.Context) []models.Workout {
	data, err := g.kv.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		g.log.Warn("workout history unreadable, starting empty", "key", g.key, "error", err)
		return nil
	}

	records, err := Decode(data)
	if err != nil {
		g.log.Warn("workout history corrupt, starting empty", "key", g.key, "error", err)
		return nil
	}
	return Restore(records, g.log)
}

// Restore rebuilds workouts from records, dropping invalid records and
// repeated ids so the result keeps ids unique.
func Restore(records []models.Record, log *slog.Logger) []models.Workout {
	workouts := make([]models.Workout, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		w, err := models.FromRecord(rec)
		if err != nil {
			log.Warn("skipping stored workout", "id", rec.ID, "error", err)
			continue
		}
		if seen[w.ID] {
			log.Warn("skipping duplicate stored workout", "id", w.ID)
			continue
		}
		seen[w.ID] = true
		workouts = append(workouts, w)
	}
	return workouts
}

// Save overwrites the stored list with workouts. A failed write is returned
// to the caller once all attempts are used; it never touches the caller's
// in-memory state.
func (g *Workouts) Save(ctx context.Context, workouts []models.Workout) error {
	data, err := Encode(workouts)
	if err != nil {
		return err
	}

	wait := g.backoff
	for attempt := 1; ; attempt++ {
		err = g.kv.Set(ctx, g.key, data)
		if err == nil {
			return nil
		}
		if attempt >= g.attempts {
			break
		}
		g.log.Warn("saving workouts failed, retrying", "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("saving workouts: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	g.log.Error("saving workouts failed", "key", g.key, "count", len(workouts), "error", err)
	return fmt.Errorf("saving workouts: %w", err)
}
