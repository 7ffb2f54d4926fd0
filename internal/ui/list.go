package ui

import (
	"math"
	"strings"
	"sync"

	"github.com/claude/mapty/internal/models"
)

// Detail is one icon/value/unit cell of a list entry.
type Detail struct {
	Icon  string  `json:"icon"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Entry is the rendered form of a workout in the side list.
type Entry struct {
	WorkoutID  string   `json:"id"`
	Kind       string   `json:"kind"`
	Title      string   `json:"title"`
	StyleClass string   `json:"styleClass"`
	Details    []Detail `json:"details"`
}

// NewEntry renders w. Pace and speed are rounded to whole numbers for
// display; the workout keeps the exact values.
func NewEntry(w models.Workout) Entry {
	metric, metricUnit := w.Metric()
	extra, extraUnit := w.Extra()
	extraIcon := "🦶🏼"
	if w.Kind == models.Cycling {
		extraIcon = "⛰"
	}
	return Entry{
		WorkoutID:  w.ID,
		Kind:       string(w.Kind),
		Title:      w.Label,
		StyleClass: "workout--" + strings.ToLower(string(w.Kind)),
		Details: []Detail{
			{Icon: w.Kind.Icon(), Value: w.DistanceKm, Unit: "KM"},
			{Icon: "⏱", Value: w.DurationMin, Unit: "MIN"},
			{Icon: "⚡️", Value: math.Round(metric), Unit: metricUnit},
			{Icon: extraIcon, Value: extra, Unit: extraUnit},
		},
	}
}

// List is the side list of workouts, newest first.
type List struct {
	mu      sync.Mutex
	entries []Entry
}

func NewList() *List {
	return &List{}
}

// Render puts w at the top of the list.
func (l *List) Render(w models.Workout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{NewEntry(w)}, l.entries...)
}

func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry{}, l.entries...)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
