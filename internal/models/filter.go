package models

import "time"

// Filter selects workouts by kind and creation time. Zero fields match
// everything.
type Filter struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

func (f Filter) Match(w Workout) bool {
	if f.Kind != "" && w.Kind != f.Kind {
		return false
	}
	if !f.Start.IsZero() && w.CreatedAt.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && w.CreatedAt.After(f.End) {
		return false
	}
	return true
}

// Apply returns the workouts matching f, keeping their order.
func (f Filter) Apply(workouts []Workout) []Workout {
	out := make([]Workout, 0, len(workouts))
	for _, w := range workouts {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	return out
}
