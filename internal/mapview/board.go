// Package mapview is a headless map widget. It keeps the view, markers and
// click subscribers a browser map would hold, and exposes them as a snapshot a
// thin web client can draw.
package mapview

import (
	"errors"
	"sync"
	"time"

	"github.com/claude/mapty/internal/models"
)

// ErrNotInitialized is returned by operations that need a live view.
var ErrNotInitialized = errors.New("map is not initialized")

// ErrInvalidCoordinates is returned for a click outside latitude [-90, 90]
// or longitude [-180, 180].
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// DefaultTileURL is the satellite imagery layer drawn under the markers.
const DefaultTileURL = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"

// Popup holds the display options of a marker's popup.
type Popup struct {
	MaxWidth     int  `json:"maxWidth"`
	MinWidth     int  `json:"minWidth"`
	AutoClose    bool `json:"autoClose"`
	CloseOnClick bool `json:"closeOnClick"`
}

// WorkoutPopup keeps workout popups open while the user keeps clicking.
var WorkoutPopup = Popup{MaxWidth: 250, MinWidth: 100}

type Marker struct {
	At         models.Coordinates `json:"at"`
	Text       string             `json:"text"`
	StyleClass string             `json:"styleClass,omitempty"`
	Popup      *Popup             `json:"popup,omitempty"`
}

type View struct {
	Center      models.Coordinates `json:"center"`
	Zoom        int                `json:"zoom"`
	Animated    bool               `json:"animated"`
	PanDuration time.Duration      `json:"panDuration"`
}

// Snapshot is a copy of the board state.
type Snapshot struct {
	Initialized bool     `json:"initialized"`
	TileURL     string   `json:"tileUrl"`
	View        View     `json:"view"`
	Markers     []Marker `json:"markers"`
}

// Board is safe for concurrent use. Click handlers run without the board
// lock held, so they may call back into the board.
type Board struct {
	mu          sync.Mutex
	tileURL     string
	zoom        int
	initialized bool
	view        View
	markers     []Marker
	handlers    []func(models.Coordinates)
}

// NewBoard creates a board drawing tileURL, opened at zoom on Init.
func NewBoard(tileURL string, zoom int) *Board {
	if tileURL == "" {
		tileURL = DefaultTileURL
	}
	if zoom <= 0 {
		zoom = 15
	}
	return &Board{tileURL: tileURL, zoom: zoom}
}

// Init opens the view centered on center. Calling it again recenters without
// dropping markers.
func (b *Board) Init(center models.Coordinates) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	b.view = View{Center: center, Zoom: b.zoom}
	return nil
}

// OnClick subscribes h to clicks on the map surface.
func (b *Board) OnClick(h func(models.Coordinates)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// PlaceMarker pins text at at. Workout markers get the styled popup; other
// markers (styleClass empty) get a plain one.
func (b *Board) PlaceMarker(at models.Coordinates, text, styleClass string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	m := Marker{At: at, Text: text, StyleClass: styleClass}
	if styleClass != "" {
		p := WorkoutPopup
		m.Popup = &p
	}
	b.markers = append(b.markers, m)
	return nil
}

// Recenter moves the view. Animated moves pan over one second.
func (b *Board) Recenter(at models.Coordinates, zoom int, animated bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	v := View{Center: at, Zoom: zoom, Animated: animated}
	if animated {
		v.PanDuration = time.Second
	}
	b.view = v
	return nil
}

// Click delivers a click at at to every subscriber, in subscription order.
func (b *Board) Click(at models.Coordinates) error {
	if !at.Valid() {
		return ErrInvalidCoordinates
	}
	b.mu.Lock()
	if !b.initialized {
		b.mu.Unlock()
		return ErrNotInitialized
	}
	handlers := append([]func(models.Coordinates){}, b.handlers...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(at)
	}
	return nil
}

func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Initialized: b.initialized,
		TileURL:     b.tileURL,
		View:        b.view,
		Markers:     append([]Marker{}, b.markers...),
	}
}
