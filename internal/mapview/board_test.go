package mapview

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
)

var lisbon = models.Coordinates{Lat: 38.7223, Lng: -9.1393}

// TestUninitializedBoard verifies nothing can be drawn before Init.
func TestUninitializedBoard(t *testing.T) {
	b := NewBoard("", 0)
	if err := b.PlaceMarker(lisbon, "x", ""); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("PlaceMarker error = %v, want ErrNotInitialized", err)
	}
	if err := b.Recenter(lisbon, 15, true); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Recenter error = %v, want ErrNotInitialized", err)
	}
	if err := b.Click(lisbon); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Click error = %v, want ErrNotInitialized", err)
	}
	snap := b.Snapshot()
	if snap.Initialized {
		t.Error("Initialized = true, want false")
	}
	if snap.TileURL != DefaultTileURL {
		t.Errorf("TileURL = %q, want default", snap.TileURL)
	}
}

// TestClickRejectsOutOfRange verifies an impossible click never reaches
// the subscribers.
func TestClickRejectsOutOfRange(t *testing.T) {
	b := NewBoard("", 15)
	if err := b.Init(lisbon); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var got []models.Coordinates
	b.OnClick(func(at models.Coordinates) { got = append(got, at) })

	for _, at := range []models.Coordinates{{Lat: 91}, {Lng: -181}, {Lat: 1000, Lng: -5000}} {
		if err := b.Click(at); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("Click(%v) error = %v, want ErrInvalidCoordinates", at, err)
		}
	}
	if err := b.Click(lisbon); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if len(got) != 1 || got[0] != lisbon {
		t.Errorf("delivered = %v, want only %v", got, lisbon)
	}
}

func TestInitCentersAtZoom(t *testing.T) {
	b := NewBoard("https://tiles.example/{z}/{x}/{y}", 13)
	if err := b.Init(lisbon); err != nil {
		t.Fatalf("Init: %v", err)
	}
	snap := b.Snapshot()
	want := View{Center: lisbon, Zoom: 13}
	if snap.View != want {
		t.Errorf("View = %+v, want %+v", snap.View, want)
	}
}

func TestPlaceMarker(t *testing.T) {
	b := NewBoard("", 15)
	_ = b.Init(lisbon)
	if err := b.PlaceMarker(lisbon, "Your location", ""); err != nil {
		t.Fatalf("PlaceMarker: %v", err)
	}
	other := models.Coordinates{Lat: 1, Lng: 2}
	if err := b.PlaceMarker(other, "Running on April 14", "running-popup"); err != nil {
		t.Fatalf("PlaceMarker: %v", err)
	}

	markers := b.Snapshot().Markers
	if len(markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers))
	}
	if markers[0].Popup != nil {
		t.Errorf("location marker popup = %+v, want nil", markers[0].Popup)
	}
	if markers[1].Popup == nil || *markers[1].Popup != WorkoutPopup {
		t.Errorf("workout marker popup = %+v, want %+v", markers[1].Popup, WorkoutPopup)
	}
	if markers[1].At != other {
		t.Errorf("At = %v, want %v", markers[1].At, other)
	}
}

func TestRecenterAnimated(t *testing.T) {
	b := NewBoard("", 15)
	_ = b.Init(lisbon)
	target := models.Coordinates{Lat: 40.4168, Lng: -3.7038}
	if err := b.Recenter(target, 15, true); err != nil {
		t.Fatalf("Recenter: %v", err)
	}
	want := View{Center: target, Zoom: 15, Animated: true, PanDuration: time.Second}
	if got := b.Snapshot().View; got != want {
		t.Errorf("View = %+v, want %+v", got, want)
	}
}

// TestClickReentrant verifies handlers run in order and may use the board.
func TestClickReentrant(t *testing.T) {
	b := NewBoard("", 15)
	_ = b.Init(lisbon)

	var order []int
	b.OnClick(func(at models.Coordinates) {
		order = append(order, 1)
		_ = b.PlaceMarker(at, "clicked", "")
	})
	b.OnClick(func(models.Coordinates) { order = append(order, 2) })

	if err := b.Click(lisbon); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("handler order = %v, want [1 2]", order)
	}
	if n := len(b.Snapshot().Markers); n != 1 {
		t.Errorf("got %d markers, want 1", n)
	}
}

// TestSnapshotIsCopy verifies callers cannot mutate board state.
func TestSnapshotIsCopy(t *testing.T) {
	b := NewBoard("", 15)
	_ = b.Init(lisbon)
	_ = b.PlaceMarker(lisbon, "a", "")
	snap := b.Snapshot()
	snap.Markers[0].Text = "changed"
	if got := b.Snapshot().Markers[0].Text; got != "a" {
		t.Errorf("Text = %q, want a", got)
	}
}
