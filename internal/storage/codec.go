package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/claude/mapty/internal/models"
)

// FormatVersion is the schema version written into every saved envelope.
const FormatVersion = 1

// ErrUnsupportedVersion is returned by Decode for an envelope written by an
// unknown schema version.
var ErrUnsupportedVersion = errors.New("unsupported workout format version")

type envelope struct {
	Version  int             `json:"version"`
	Workouts []models.Record `json:"workouts"`
}

// legacyRecord is the schema-less shape written by the browser version of the
// tracker straight into local storage.
type legacyRecord struct {
	Date          time.Time `json:"date"`
	ID            string    `json:"id"`
	Coords        []float64 `json:"coords"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Type          string    `json:"type"`
	Cadence       *float64  `json:"cadence"`
	Pace          *float64  `json:"pace"`
	ElevationGain *float64  `json:"elevationGain"`
	Speed         *float64  `json:"speed"`
	Description   string    `json:"discription"`
}

func (l legacyRecord) record() models.Record {
	r := models.Record{
		ID:             l.ID,
		Kind:           models.Kind(l.Type),
		CreatedAt:      l.Date,
		DistanceKm:     l.Distance,
		DurationMin:    l.Duration,
		Label:          l.Description,
		CadenceSpm:     l.Cadence,
		PaceMinPerKm:   l.Pace,
		ElevationGainM: l.ElevationGain,
		SpeedKmPerH:    l.Speed,
	}
	if len(l.Coords) == 2 {
		r.Lat, r.Lng = l.Coords[0], l.Coords[1]
	} else {
		// FromRecord rejects non-finite coordinates
		r.Lat, r.Lng = math.NaN(), math.NaN()
	}
	return r
}

// Encode serializes the full workout list into a versioned envelope.
func Encode(workouts []models.Workout) ([]byte, error) {
	env := envelope{Version: FormatVersion, Workouts: make([]models.Record, 0, len(workouts))}
	for _, w := range workouts {
		env.Workouts = append(env.Workouts, w.Record())
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Decode parses a stored value. It understands the versioned envelope and the
// bare array the browser tracker wrote; empty input and JSON null decode to no
// records.
func Decode(data []byte) ([]models.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var legacy []legacyRecord
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("decoding legacy workouts: %w", err)
		}
		records := make([]models.Record, 0, len(legacy))
		for _, l := range legacy {
			records = append(records, l.record())
		}
		return records, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decoding workouts: %w", err)
		}
		if env.Version != FormatVersion {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
		return env.Workouts, nil
	}
	return nil, fmt.Errorf("decoding workouts: unexpected leading byte %q", data[0])
}
