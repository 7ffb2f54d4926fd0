// Package geolocate answers the single "where am I" query a tracking session
// makes at startup.
package geolocate

import (
	"context"
	"errors"
	"time"

	"github.com/claude/mapty/internal/models"
)

var (
	ErrUnsupported      = errors.New("geolocation is not supported")
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrTimeout          = errors.New("geolocation timed out")
)

// PositionError is returned by Locate when no fix could be obtained.
type PositionError struct {
	Err error
}

func (e *PositionError) Error() string {
	return "could not get your position: " + e.Err.Error()
}

func (e *PositionError) Unwrap() error { return e.Err }

// Options mirrors the knobs of a one-shot position request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is the oldest cached fix the source may return. Zero
	// demands a fresh fix.
	MaximumAge time.Duration
}

// DefaultOptions returns a high-accuracy request with a 5 second timeout that
// refuses cached fixes.
func DefaultOptions() Options {
	return Options{HighAccuracy: true, Timeout: 5 * time.Second}
}

// Source produces a single position fix.
type Source interface {
	CurrentPosition(ctx context.Context, opts Options) (models.Coordinates, error)
}

// Locate queries src once, bounded by opts.Timeout. A nil source means the
// environment has no geolocation at all. Every failure is a *PositionError.
func Locate(ctx context.Context, src Source, opts Options) (models.Coordinates, error) {
	if src == nil {
		return models.Coordinates{}, &PositionError{Err: ErrUnsupported}
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type result struct {
		at  models.Coordinates
		err error
	}
	done := make(chan result, 1)
	go func() {
		at, err := src.CurrentPosition(ctx, opts)
		done <- result{at, err}
	}()

	select {
	case <-ctx.Done():
		return models.Coordinates{}, positionError(ctx.Err())
	case r := <-done:
		if r.err != nil {
			return models.Coordinates{}, positionError(r.err)
		}
		return r.at, nil
	}
}

func positionError(err error) *PositionError {
	var pe *PositionError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &PositionError{Err: ErrTimeout}
	}
	return &PositionError{Err: err}
}

// Static always reports the same fix. It stands in for a device whose
// position is configured rather than measured.
type Static struct {
	At models.Coordinates
}

func (s Static) CurrentPosition(ctx context.Context, _ Options) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	return s.At, nil
}

// Denied is a source whose user refused the permission prompt.
type Denied struct{}

func (Denied) CurrentPosition(context.Context, Options) (models.Coordinates, error) {
	return models.Coordinates{}, ErrPermissionDenied
}
