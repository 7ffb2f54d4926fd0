package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/mapty/internal/validate"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates the workout variants.
type Kind string

const (
	Running Kind = "Running"
	Cycling Kind = "Cycling"
)

// ErrUnknownKind is returned for a discriminant other than Running or Cycling.
var ErrUnknownKind = errors.New("unknown workout kind")

// ErrInvalidWorkout is returned when construction inputs break the
// finite/positive contract of a workout.
var ErrInvalidWorkout = errors.New("invalid workout")

// ParseKind accepts a kind name in any letter case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return Running, nil
	case "cycling":
		return Cycling, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is one of the known variants.
func (k Kind) Valid() bool {
	return k == Running || k == Cycling
}

// Icon is the glyph shown next to a workout on the map and in the list.
func (k Kind) Icon() string {
	switch k {
	case Running:
		return "🏃‍♂️"
	case Cycling:
		return "🚴‍♂️"
	}
	return ""
}

// Coordinates is an immutable latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c is a point on the globe: latitude within
// [-90, 90] and longitude within [-180, 180]. NaN is never valid.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// RunningStats is the Running variant payload.
type RunningStats struct {
	CadenceSpm   float64
	PaceMinPerKm float64
}

// CyclingStats is the Cycling variant payload.
type CyclingStats struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Workout is a recorded exercise session. Exactly one variant payload is
// meaningful, selected by Kind. Values are built by NewRunning, NewCycling or
// FromRecord and are never modified afterwards; derived metrics are computed
// once at construction.
type Workout struct {
	ID          string
	CreatedAt   time.Time
	Coords      Coordinates
	DistanceKm  float64
	DurationMin float64
	Kind        Kind
	Label       string

	Running RunningStats
	Cycling CyclingStats
}

// NewRunning builds a Running workout. Distance, duration and cadence must be
// finite and strictly positive.
func NewRunning(at Coordinates, distanceKm, durationMin, cadenceSpm float64, now time.Time) (Workout, error) {
	if !validate.AllFinite(distanceKm, durationMin, cadenceSpm) || !validate.AllPositive(distanceKm, durationMin, cadenceSpm) {
		return Workout{}, fmt.Errorf("%w: running needs positive distance, duration and cadence", ErrInvalidWorkout)
	}
	w := newBase(Running, at, distanceKm, durationMin, now)
	w.Running = RunningStats{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: pace(distanceKm, durationMin),
	}
	return w, nil
}

// NewCycling builds a Cycling workout. Distance and duration must be finite
// and strictly positive; elevation gain must be finite and may be negative.
func NewCycling(at Coordinates, distanceKm, durationMin, elevationGainM float64, now time.Time) (Workout, error) {
	if !validate.AllFinite(distanceKm, durationMin, elevationGainM) || !validate.AllPositive(distanceKm, durationMin) {
		return Workout{}, fmt.Errorf("%w: cycling needs positive distance and duration and a finite elevation", ErrInvalidWorkout)
	}
	w := newBase(Cycling, at, distanceKm, durationMin, now)
	w.Cycling = CyclingStats{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    speed(distanceKm, durationMin),
	}
	return w, nil
}

func newBase(kind Kind, at Coordinates, distanceKm, durationMin float64, now time.Time) Workout {
	return Workout{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		Coords:      at,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Kind:        kind,
		Label:       Label(kind, now),
	}
}

func pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

func speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

var titleCaser = cases.Title(language.English)

// Label renders the display title of a workout, e.g. "Running on April 14".
func Label(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", titleCaser.String(string(kind)), at.Month(), at.Day())
}

// Metric returns the kind-specific derived metric and its display unit.
func (w Workout) Metric() (float64, string) {
	switch w.Kind {
	case Running:
		return w.Running.PaceMinPerKm, "MIN/KM"
	case Cycling:
		return w.Cycling.SpeedKmPerH, "KM/H"
	}
	return 0, ""
}

// Extra returns the kind-specific user input and its display unit.
func (w Workout) Extra() (float64, string) {
	switch w.Kind {
	case Running:
		return w.Running.CadenceSpm, "SPM"
	case Cycling:
		return w.Cycling.ElevationGainM, "M"
	}
	return 0, ""
}
