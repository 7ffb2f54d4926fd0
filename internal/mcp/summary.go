package mcp

import (
	"sort"

	"github.com/claude/mapty/internal/models"
)

// KindSummary aggregates the workouts of one kind. AvgPaceMinPerKm is total
// duration over total distance, not a mean of per-workout paces.
type KindSummary struct {
	Kind            models.Kind `json:"kind"`
	Count           int         `json:"count"`
	DistanceKm      float64     `json:"distance_km"`
	DurationMin     float64     `json:"duration_min"`
	LongestKm       float64     `json:"longest_km"`
	AvgCadenceSpm   float64     `json:"avg_cadence_spm,omitempty"`
	AvgPaceMinPerKm float64     `json:"avg_pace_min_per_km,omitempty"`
	AvgSpeedKmPerH  float64     `json:"avg_speed_km_per_h,omitempty"`
	ElevationGainM  float64     `json:"elevation_gain_m,omitempty"`
}

type Summary struct {
	Count       int           `json:"count"`
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	ByKind      []KindSummary `json:"by_kind"`
}

// Summarize totals workouts overall and per kind. Kinds appear in name
// order and only when they have workouts.
func Summarize(workouts []models.Workout) Summary {
	byKind := map[models.Kind]*KindSummary{}
	var cadenceSum float64
	var s Summary
	for _, w := range workouts {
		s.Count++
		s.DistanceKm += w.DistanceKm
		s.DurationMin += w.DurationMin

		k, ok := byKind[w.Kind]
		if !ok {
			k = &KindSummary{Kind: w.Kind}
			byKind[w.Kind] = k
		}
		k.Count++
		k.DistanceKm += w.DistanceKm
		k.DurationMin += w.DurationMin
		if w.DistanceKm > k.LongestKm {
			k.LongestKm = w.DistanceKm
		}
		switch w.Kind {
		case models.Running:
			cadenceSum += w.Running.CadenceSpm
		case models.Cycling:
			k.ElevationGainM += w.Cycling.ElevationGainM
		}
	}

	for _, k := range byKind {
		switch k.Kind {
		case models.Running:
			k.AvgPaceMinPerKm = k.DurationMin / k.DistanceKm
			k.AvgCadenceSpm = cadenceSum / float64(k.Count)
		case models.Cycling:
			k.AvgSpeedKmPerH = k.DistanceKm / (k.DurationMin / 60)
		}
		s.ByKind = append(s.ByKind, *k)
	}
	sort.Slice(s.ByKind, func(i, j int) bool { return s.ByKind[i].Kind < s.ByKind[j].Kind })
	if s.ByKind == nil {
		s.ByKind = []KindSummary{}
	}
	return s
}
