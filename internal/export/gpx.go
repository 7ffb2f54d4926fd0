// Package export writes the workout list in formats other tools read.
package export

import (
	"fmt"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "mapty"

// GPX renders workouts as GPX 1.1 waypoints, one per workout, in the given
// order. The waypoint type is the workout kind and the description carries
// the distance, duration and derived metric.
func GPX(workouts []models.Workout, exportedAt time.Time) ([]byte, error) {
	doc := &gpx.GPX{
		Creator:     creator,
		Name:        "Workouts",
		Description: fmt.Sprintf("%d workouts exported %s", len(workouts), exportedAt.UTC().Format(time.RFC3339)),
		Time:        &exportedAt,
	}
	for _, w := range workouts {
		doc.Waypoints = append(doc.Waypoints, waypoint(w))
	}

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}
	return data, nil
}

func waypoint(w models.Workout) gpx.GPXPoint {
	metric, metricUnit := w.Metric()
	extra, extraUnit := w.Extra()
	desc := fmt.Sprintf("%g km in %g min, %.1f %s, %g %s",
		w.DistanceKm, w.DurationMin, metric, metricUnit, extra, extraUnit)
	return gpx.GPXPoint{
		Point: gpx.Point{
			Latitude:  w.Coords.Lat,
			Longitude: w.Coords.Lng,
		},
		Timestamp:   w.CreatedAt.UTC(),
		Name:        w.Label,
		Comment:     w.ID,
		Description: desc,
		Type:        string(w.Kind),
	}
}
