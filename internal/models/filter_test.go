package models

import (
	"testing"
	"time"
)

func TestFilter(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.April, d, 8, 0, 0, 0, time.UTC) }
	run, _ := NewRunning(Coordinates{}, 5, 30, 180, day(10))
	ride, _ := NewCycling(Coordinates{}, 20, 60, 0, day(12))
	all := []Workout{run, ride}

	tests := map[string]struct {
		f    Filter
		want int
	}{
		"zero":         {Filter{}, 2},
		"kind":         {Filter{Kind: Cycling}, 1},
		"start":        {Filter{Start: day(11)}, 1},
		"end":          {Filter{End: day(11)}, 1},
		"empty window": {Filter{Start: day(13), End: day(14)}, 0},
		"inclusive":    {Filter{Start: day(10), End: day(12)}, 2},
	}
	for name, tt := range tests {
		if got := len(tt.f.Apply(all)); got != tt.want {
			t.Errorf("%s: got %d workouts, want %d", name, got, tt.want)
		}
	}
}
