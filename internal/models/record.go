package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/mapty/internal/validate"
)

// ErrInvalidRecord is returned when a persisted record cannot be turned back
// into a workout.
var ErrInvalidRecord = errors.New("invalid workout record")

// Record is the flat serialized shape of a Workout, discriminated by Kind.
// Variant fields are pointers so a missing field can be told apart from zero.
type Record struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	DistanceKm  float64   `json:"distanceKm"`
	DurationMin float64   `json:"durationMin"`
	Label       string    `json:"label,omitempty"`

	CadenceSpm     *float64 `json:"cadenceSpm,omitempty"`
	PaceMinPerKm   *float64 `json:"paceMinPerKm,omitempty"`
	ElevationGainM *float64 `json:"elevationGainM,omitempty"`
	SpeedKmPerH    *float64 `json:"speedKmPerH,omitempty"`
}

// Record flattens w into its serialized shape.
func (w Workout) Record() Record {
	r := Record{
		ID:          w.ID,
		Kind:        w.Kind,
		CreatedAt:   w.CreatedAt,
		Lat:         w.Coords.Lat,
		Lng:         w.Coords.Lng,
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Label:       w.Label,
	}
	switch w.Kind {
	case Running:
		r.CadenceSpm = ptr(w.Running.CadenceSpm)
		r.PaceMinPerKm = ptr(w.Running.PaceMinPerKm)
	case Cycling:
		r.ElevationGainM = ptr(w.Cycling.ElevationGainM)
		r.SpeedKmPerH = ptr(w.Cycling.SpeedKmPerH)
	}
	return r
}

// FromRecord rebuilds a workout from its persisted shape. Derived metrics and
// the label are restored as stored and only recomputed when absent.
func FromRecord(r Record) (Workout, error) {
	if strings.TrimSpace(r.ID) == "" {
		return Workout{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	kind, err := ParseKind(string(r.Kind))
	if err != nil {
		return Workout{}, fmt.Errorf("%w: record %s: %w", ErrInvalidRecord, r.ID, err)
	}
	if !validate.AllFinite(r.DistanceKm, r.DurationMin, r.Lat, r.Lng) || !validate.AllPositive(r.DistanceKm, r.DurationMin) {
		return Workout{}, fmt.Errorf("%w: record %s: distance and duration must be positive", ErrInvalidRecord, r.ID)
	}
	if at := (Coordinates{Lat: r.Lat, Lng: r.Lng}); !at.Valid() {
		return Workout{}, fmt.Errorf("%w: record %s: coordinates %s out of range", ErrInvalidRecord, r.ID, at)
	}

	w := Workout{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Coords:      Coordinates{Lat: r.Lat, Lng: r.Lng},
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Kind:        kind,
		Label:       r.Label,
	}
	if w.Label == "" {
		w.Label = Label(kind, r.CreatedAt)
	}

	switch kind {
	case Running:
		if r.CadenceSpm == nil || !validate.AllFinite(*r.CadenceSpm) || !validate.AllPositive(*r.CadenceSpm) {
			return Workout{}, fmt.Errorf("%w: record %s: running needs a positive cadence", ErrInvalidRecord, r.ID)
		}
		w.Running.CadenceSpm = *r.CadenceSpm
		if r.PaceMinPerKm != nil {
			w.Running.PaceMinPerKm = *r.PaceMinPerKm
		} else {
			w.Running.PaceMinPerKm = pace(r.DistanceKm, r.DurationMin)
		}
	case Cycling:
		if r.ElevationGainM == nil || !validate.AllFinite(*r.ElevationGainM) {
			return Workout{}, fmt.Errorf("%w: record %s: cycling needs a finite elevation gain", ErrInvalidRecord, r.ID)
		}
		w.Cycling.ElevationGainM = *r.ElevationGainM
		if r.SpeedKmPerH != nil {
			w.Cycling.SpeedKmPerH = *r.SpeedKmPerH
		} else {
			w.Cycling.SpeedKmPerH = speed(r.DistanceKm, r.DurationMin)
		}
	}
	return w, nil
}

func ptr(v float64) *float64 {
	return &v
}
