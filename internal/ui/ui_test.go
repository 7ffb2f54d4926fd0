package ui

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
)

// TestFormLifecycle walks the form through show, fill, clear and hide.
func TestFormLifecycle(t *testing.T) {
	f := NewForm()
	if s := f.Snapshot(); s.Visible || s.Values.Kind != "Running" {
		t.Fatalf("initial state = %+v, want hidden with Running", s)
	}

	f.Show()
	f.FocusDistance()
	f.SetValues(FormValues{Distance: "5", Duration: "30", Cadence: "180"})
	s := f.Snapshot()
	if !s.Visible || s.Focused != FieldDistance {
		t.Errorf("state = %+v, want visible with distance focused", s)
	}
	if s.Values.Kind != "Running" {
		t.Errorf("Kind = %q, want Running kept", s.Values.Kind)
	}

	f.Clear()
	f.Hide()
	s = f.Snapshot()
	want := FormValues{Kind: "Running"}
	if s.Values != want {
		t.Errorf("Values = %+v, want %+v", s.Values, want)
	}
	if s.Visible || s.Focused != "" {
		t.Errorf("state = %+v, want hidden without focus", s)
	}
}

// TestSelectKindSwapsFields verifies the type selector picks the extra row.
func TestSelectKindSwapsFields(t *testing.T) {
	f := NewForm()
	if got := f.Snapshot().Fields; !reflect.DeepEqual(got, []string{"type", "distance", "duration", "cadence"}) {
		t.Errorf("running fields = %v", got)
	}
	f.SelectKind(models.Cycling)
	if got := f.Snapshot().Fields; !reflect.DeepEqual(got, []string{"type", "distance", "duration", "elevation"}) {
		t.Errorf("cycling fields = %v", got)
	}
	if got := f.Values().Kind; got != "Cycling" {
		t.Errorf("Kind = %q, want Cycling", got)
	}
}

func TestListNewestFirst(t *testing.T) {
	l := NewList()
	now := time.Date(2025, time.April, 14, 9, 0, 0, 0, time.UTC)
	at := models.Coordinates{Lat: 1, Lng: 2}
	for i := 1; i <= 3; i++ {
		w, err := models.NewRunning(at, float64(i), 30, 170, now)
		if err != nil {
			t.Fatal(err)
		}
		l.Render(w)
	}
	entries := l.Entries()
	if len(entries) != 3 || l.Len() != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if want := float64(3 - i); e.Details[0].Value != want {
			t.Errorf("entry %d distance = %v, want %v", i, e.Details[0].Value, want)
		}
	}
}

// TestEntryRounding verifies derived metrics are rounded only for display.
func TestEntryRounding(t *testing.T) {
	now := time.Date(2025, time.April, 14, 9, 0, 0, 0, time.UTC)
	w, err := models.NewCycling(models.Coordinates{}, 20.3, 61.7, -50, now)
	if err != nil {
		t.Fatal(err)
	}
	e := NewEntry(w)
	if e.StyleClass != "workout--cycling" {
		t.Errorf("StyleClass = %q", e.StyleClass)
	}
	if e.Title != "Cycling on April 14" {
		t.Errorf("Title = %q", e.Title)
	}
	speed := e.Details[2]
	if speed.Value != 20 || speed.Unit != "KM/H" {
		t.Errorf("speed detail = %+v, want 20 KM/H", speed)
	}
	if w.Cycling.SpeedKmPerH == 20 {
		t.Error("workout speed was rounded")
	}
	if elev := e.Details[3]; elev.Value != -50 || elev.Unit != "M" {
		t.Errorf("elevation detail = %+v", elev)
	}
}

func TestNoticesDrain(t *testing.T) {
	n := NewNotices(2)
	if got := n.Drain(); len(got) != 0 {
		t.Errorf("empty Drain = %v", got)
	}
	for i := 0; i < 3; i++ {
		n.Notify(fmt.Sprintf("notice %d", i))
	}
	got := n.Drain()
	if len(got) != 2 || got[0].Message != "notice 1" || got[1].Message != "notice 2" {
		t.Errorf("Drain = %+v, want the two newest", got)
	}
	if again := n.Drain(); len(again) != 0 {
		t.Errorf("second Drain = %v, want empty", again)
	}
}
