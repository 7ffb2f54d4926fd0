package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleWorkouts(t *testing.T) []models.Workout {
	t.Helper()
	at := time.Date(2025, time.April, 14, 8, 0, 0, 0, time.UTC)
	run, err := models.NewRunning(models.Coordinates{Lat: 38.7223, Lng: -9.1393}, 5, 30, 180, at)
	require.NoError(t, err)
	ride, err := models.NewCycling(models.Coordinates{Lat: 38.71, Lng: -9.15}, 20.3, 61.7, -50, at.Add(time.Hour))
	require.NoError(t, err)
	return []models.Workout{run, ride}
}

// flakyKV fails the first n writes, then behaves like Memory.
type flakyKV struct {
	*Memory
	failures int
	calls    int
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("quota exceeded")
	}
	return f.Memory.Set(ctx, key, value)
}

// TestSaveLoadRoundTrip verifies N saved workouts come back with the same
// ids, kinds, coordinates and derived metrics.
func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := NewWorkouts(NewMemory(), discardLogger())
	orig := sampleWorkouts(t)

	require.NoError(t, g.Save(ctx, orig))
	got := g.Load(ctx)
	require.Len(t, got, len(orig))
	for i := range orig {
		require.Equal(t, orig[i].ID, got[i].ID)
		require.Equal(t, orig[i].Kind, got[i].Kind)
		require.Equal(t, orig[i].Coords, got[i].Coords)
		require.Equal(t, orig[i].Running, got[i].Running)
		require.Equal(t, orig[i].Cycling, got[i].Cycling)
		require.Equal(t, orig[i].Label, got[i].Label)
		require.True(t, orig[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

// TestLoadEmptyIsIdempotent verifies an absent key loads as an empty list,
// repeatedly and without error.
func TestLoadEmptyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	g := NewWorkouts(NewMemory(), discardLogger())
	require.Empty(t, g.Load(ctx))
	require.Empty(t, g.Load(ctx))
}

// TestLoadCorruptDegradesToEmpty verifies unparsable or unknown-version values
// are treated as no history.
func TestLoadCorruptDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{not json`, `42`, `{"version":99,"workouts":[]}`, `{"workouts":[]}`} {
		kv := NewMemory()
		require.NoError(t, kv.Set(ctx, DefaultKey, []byte(raw)))
		require.Empty(t, NewWorkouts(kv, discardLogger()).Load(ctx), "value %s", raw)
	}
}

// TestLoadSkipsInvalidAndDuplicateRecords verifies partial damage only drops
// the affected records.
func TestLoadSkipsInvalidAndDuplicateRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	raw := `{"version":1,"workouts":[
		{"id":"a","kind":"Running","lat":1,"lng":2,"distanceKm":5,"durationMin":30,"cadenceSpm":180,"paceMinPerKm":6},
		{"id":"a","kind":"Running","lat":1,"lng":2,"distanceKm":5,"durationMin":30,"cadenceSpm":180},
		{"id":"b","kind":"Rowing","lat":1,"lng":2,"distanceKm":5,"durationMin":30},
		{"id":"c","kind":"Cycling","lat":1,"lng":2,"distanceKm":-1,"durationMin":30,"elevationGainM":0}
	]}`
	require.NoError(t, kv.Set(ctx, DefaultKey, []byte(raw)))

	got := NewWorkouts(kv, discardLogger()).Load(ctx)
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].ID)
}

// TestLoadLegacyBrowserFormat verifies the bare array written by the browser
// tracker is understood, keeping its stored pace and description.
func TestLoadLegacyBrowserFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	raw := `[
		{"date":"2024-04-14T10:00:00.000Z","id":"1713088800","coords":[38.72,-9.14],"distance":5,"duration":30,"type":"Running","cadence":180,"pace":6,"discription":"Running on April 14"},
		{"date":"2024-04-15T10:00:00.000Z","id":"1713175200","coords":[38.70,-9.10],"distance":20,"duration":60,"type":"Cycling","elevationGain":-50,"speed":20,"discription":"Cycling on April 15"},
		{"date":"2024-04-16T10:00:00.000Z","id":"1713261600","coords":[38.70],"distance":20,"duration":60,"type":"Cycling","elevationGain":5,"speed":20}
	]`
	require.NoError(t, kv.Set(ctx, DefaultKey, []byte(raw)))

	got := NewWorkouts(kv, discardLogger()).Load(ctx)
	require.Len(t, got, 2)
	require.Equal(t, models.Running, got[0].Kind)
	require.Equal(t, 6.0, got[0].Running.PaceMinPerKm)
	require.Equal(t, models.Coordinates{Lat: 38.72, Lng: -9.14}, got[0].Coords)
	require.Equal(t, "Running on April 14", got[0].Label)
	require.Equal(t, -50.0, got[1].Cycling.ElevationGainM)
	require.Equal(t, 20.0, got[1].Cycling.SpeedKmPerH)
}

// TestSaveFailureIsReported verifies a failed write reaches the caller.
func TestSaveFailureIsReported(t *testing.T) {
	kv := &flakyKV{Memory: NewMemory(), failures: 1}
	g := NewWorkouts(kv, discardLogger())
	err := g.Save(context.Background(), sampleWorkouts(t))
	require.Error(t, err)
	require.Equal(t, 1, kv.calls)
}

// TestSaveRetries verifies the configured attempts absorb transient failures.
func TestSaveRetries(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Memory: NewMemory(), failures: 2}
	g := NewWorkouts(kv, discardLogger(), WithSaveAttempts(3, time.Millisecond))
	require.NoError(t, g.Save(ctx, sampleWorkouts(t)))
	require.Equal(t, 3, kv.calls)
	require.Len(t, g.Load(ctx), 2)
}

// TestSaveRetryStopsOnCancel verifies a cancelled context ends the backoff.
func TestSaveRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	kv := &flakyKV{Memory: NewMemory(), failures: 10}
	g := NewWorkouts(kv, discardLogger(), WithSaveAttempts(5, time.Hour))
	err := g.Save(ctx, sampleWorkouts(t))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, kv.calls)
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	g := NewWorkouts(kv, discardLogger(), WithKey("other"))
	require.NoError(t, g.Save(ctx, sampleWorkouts(t)))

	_, err := kv.Get(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = kv.Get(ctx, "other")
	require.NoError(t, err)
}

// TestEncodeWritesVersion verifies saved values carry the schema version.
func TestEncodeWritesVersion(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"workouts":[]}`, string(data))

	recs, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, recs)

	recs, err = Decode([]byte("null"))
	require.NoError(t, err)
	require.Nil(t, recs)
}
