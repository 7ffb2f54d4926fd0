package models

import (
	"errors"
	"math"
	"testing"
	"testing/quick"
	"time"
)

var april14 = time.Date(2025, time.April, 14, 9, 30, 0, 0, time.UTC)

// TestNewRunningPace verifies Scenario A's derived pace and label.
func TestNewRunningPace(t *testing.T) {
	w, err := NewRunning(Coordinates{Lat: 51.5, Lng: -0.12}, 5, 30, 180, april14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Kind != Running {
		t.Errorf("kind = %q, want %q", w.Kind, Running)
	}
	if w.Running.PaceMinPerKm != 6 {
		t.Errorf("pace = %v, want 6", w.Running.PaceMinPerKm)
	}
	if w.Running.CadenceSpm != 180 {
		t.Errorf("cadence = %v, want 180", w.Running.CadenceSpm)
	}
	if w.Label != "Running on April 14" {
		t.Errorf("label = %q, want %q", w.Label, "Running on April 14")
	}
	if w.ID == "" {
		t.Error("expected an id")
	}
	if !w.CreatedAt.Equal(april14) {
		t.Errorf("createdAt = %v, want %v", w.CreatedAt, april14)
	}
}

// TestNewCyclingNegativeElevation verifies Scenario B: elevation sign is unrestricted.
func TestNewCyclingNegativeElevation(t *testing.T) {
	w, err := NewCycling(Coordinates{Lat: 1, Lng: 2}, 20, 60, -50, april14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Cycling.SpeedKmPerH != 20 {
		t.Errorf("speed = %v, want 20", w.Cycling.SpeedKmPerH)
	}
	if w.Cycling.ElevationGainM != -50 {
		t.Errorf("elevation = %v, want -50", w.Cycling.ElevationGainM)
	}
	if w.Label != "Cycling on April 14" {
		t.Errorf("label = %q", w.Label)
	}
}

func TestConstructorsRejectInvalidInput(t *testing.T) {
	at := Coordinates{}
	cases := []struct {
		name string
		fn   func() (Workout, error)
	}{
		{"running zero cadence", func() (Workout, error) { return NewRunning(at, 5, 30, 0, april14) }},
		{"running negative distance", func() (Workout, error) { return NewRunning(at, -5, 30, 180, april14) }},
		{"running nan duration", func() (Workout, error) { return NewRunning(at, 5, math.NaN(), 180, april14) }},
		{"cycling zero duration", func() (Workout, error) { return NewCycling(at, 20, 0, 10, april14) }},
		{"cycling infinite elevation", func() (Workout, error) { return NewCycling(at, 20, 60, math.Inf(1), april14) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fn(); !errors.Is(err, ErrInvalidWorkout) {
				t.Errorf("err = %v, want ErrInvalidWorkout", err)
			}
		})
	}
}

// TestDerivedMetricProperties checks pace and speed are the exact quotients
// of the inputs for arbitrary positive values.
func TestDerivedMetricProperties(t *testing.T) {
	positive := func(v float64) float64 {
		v = math.Abs(v)
		if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 1
		}
		return v
	}

	runningPace := func(d, m float64) bool {
		d, m = positive(d), positive(m)
		w, err := NewRunning(Coordinates{}, d, m, 170, april14)
		return err == nil && w.Running.PaceMinPerKm == m/d
	}
	if err := quick.Check(runningPace, nil); err != nil {
		t.Error(err)
	}

	cyclingSpeed := func(d, m, e float64) bool {
		d, m = positive(d), positive(m)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			e = 0
		}
		w, err := NewCycling(Coordinates{}, d, m, e, april14)
		return err == nil && w.Cycling.SpeedKmPerH == d/(m/60)
	}
	if err := quick.Check(cyclingSpeed, nil); err != nil {
		t.Error(err)
	}
}

// TestIDsAreUnique verifies ids do not repeat across many constructions.
func TestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		w, err := NewRunning(Coordinates{}, 1, 1, 1, april14)
		if err != nil {
			t.Fatal(err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %s", w.ID)
		}
		seen[w.ID] = true
	}
}

// TestCoordinatesValid verifies the globe bounds, edges included.
func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		at   Coordinates
		want bool
	}{
		{Coordinates{}, true},
		{Coordinates{Lat: 90, Lng: 180}, true},
		{Coordinates{Lat: -90, Lng: -180}, true},
		{Coordinates{Lat: 90.0001}, false},
		{Coordinates{Lng: -180.0001}, false},
		{Coordinates{Lat: 1000, Lng: -5000}, false},
		{Coordinates{Lat: math.NaN()}, false},
		{Coordinates{Lng: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		if got := tt.at.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"Running": Running, "running": Running, " CYCLING ": Cycling} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("swimming"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(swimming) err = %v, want ErrUnknownKind", err)
	}
}

func TestMetricAndExtra(t *testing.T) {
	run, _ := NewRunning(Coordinates{}, 5, 30, 180, april14)
	if v, unit := run.Metric(); v != 6 || unit != "MIN/KM" {
		t.Errorf("running metric = %v %s", v, unit)
	}
	if v, unit := run.Extra(); v != 180 || unit != "SPM" {
		t.Errorf("running extra = %v %s", v, unit)
	}
	ride, _ := NewCycling(Coordinates{}, 20, 60, -50, april14)
	if v, unit := ride.Metric(); v != 20 || unit != "KM/H" {
		t.Errorf("cycling metric = %v %s", v, unit)
	}
	if v, unit := ride.Extra(); v != -50 || unit != "M" {
		t.Errorf("cycling extra = %v %s", v, unit)
	}
}
