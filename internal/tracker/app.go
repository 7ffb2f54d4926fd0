// Package tracker is the session controller: it owns the in-memory workout
// list and keeps the map, the side list and the store consistent with it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/mapty/internal/geolocate"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
	"github.com/claude/mapty/internal/ui"
	"github.com/claude/mapty/internal/validate"
)

// Notice texts shown to the user.
const (
	NoticePositionFailed = "Could not get your position. Please enable location services."
	NoticeUnsupported    = "Geolocation is not supported by your browser."
	NoticeInvalidInput   = "Inputs have to be positive numbers"
	NoticeSaveFailed     = "Your workout was recorded but could not be saved. It will be saved with the next workout or sync."

	LocationMarkerText = "Your location"
)

// Store persists the full workout list.
type Store interface {
	Load(ctx context.Context) []models.Workout
	Save(ctx context.Context, workouts []models.Workout) error
}

// MapView is the map surface the controller draws on.
type MapView interface {
	Init(center models.Coordinates) error
	OnClick(handler func(models.Coordinates))
	PlaceMarker(at models.Coordinates, text, styleClass string) error
	Recenter(at models.Coordinates, zoom int, animated bool) error
}

// Form is the workout entry form.
type Form interface {
	Show()
	Hide()
	FocusDistance()
	SelectKind(kind models.Kind)
	Values() ui.FormValues
	Clear()
}

// List is the side list of rendered workouts.
type List interface {
	Render(w models.Workout)
}

// Notifier surfaces user-visible messages.
type Notifier interface {
	Notify(msg string)
}

// Deps are the collaborators of an App.
type Deps struct {
	Store    Store
	Position geolocate.Source
	Map      MapView
	Form     Form
	List     List
	Notifier Notifier
	Log      *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithZoom sets the zoom used when focusing a workout.
func WithZoom(zoom int) Option {
	return func(a *App) {
		if zoom > 0 {
			a.zoom = zoom
		}
	}
}

// WithPositionOptions overrides geolocate.DefaultOptions for the startup
// position query.
func WithPositionOptions(opts geolocate.Options) Option {
	return func(a *App) { a.posOpts = opts }
}

// App drives one tracking session. It is not safe for concurrent use: every
// call, map click delivery included, must come from a single control path.
type App struct {
	deps    Deps
	log     *slog.Logger
	now     func() time.Time
	zoom    int
	posOpts geolocate.Options

	state       State
	workouts    []models.Workout
	pending     *models.Coordinates
	syncPending bool
}

// New creates an App in AwaitingPosition.
func New(deps Deps, opts ...Option) *App {
	a := &App{
		deps:    deps,
		log:     deps.Log,
		now:     time.Now,
		zoom:    15,
		posOpts: geolocate.DefaultOptions(),
		state:   AwaitingPosition,
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start runs the single position query, opens the map on the fix and
// restores the stored workouts onto it. When no position can be obtained the
// App stays in PositionUnavailable, the user is notified and the returned
// error wraps ErrPositionUnavailable.
func (a *App) Start(ctx context.Context) error {
	if a.state != AwaitingPosition {
		return fmt.Errorf("%w: already started", ErrNotReady)
	}

	at, err := geolocate.Locate(ctx, a.deps.Position, a.posOpts)
	if err != nil {
		return a.positionFailed(err)
	}
	if err := a.deps.Map.Init(at); err != nil {
		return a.positionFailed(err)
	}
	if err := a.deps.Map.PlaceMarker(at, LocationMarkerText, ""); err != nil {
		a.log.Warn("placing location marker", "error", err)
	}
	a.deps.Map.OnClick(a.mapClicked)
	a.state = AwaitingMapClick
	a.log.Info("map ready", "center", at.String())

	a.restore(ctx)
	return nil
}

func (a *App) positionFailed(err error) error {
	a.state = PositionUnavailable
	reason := "error"
	msg := NoticePositionFailed
	switch {
	case errors.Is(err, geolocate.ErrUnsupported):
		reason, msg = "unsupported", NoticeUnsupported
	case errors.Is(err, geolocate.ErrPermissionDenied):
		reason = "denied"
	case errors.Is(err, geolocate.ErrTimeout):
		reason = "timeout"
	}
	observability.RecordPositionFailure(reason)
	a.deps.Notifier.Notify(msg)
	a.log.Warn("position unavailable", "reason", reason, "error", err)
	return fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
}

// restore replaces the in-memory list with the stored one and draws every
// workout. It needs a live map.
func (a *App) restore(ctx context.Context) {
	a.workouts = a.deps.Store.Load(ctx)
	for _, w := range a.workouts {
		a.render(w)
	}
	observability.SetWorkoutsTracked(len(a.workouts))
	if len(a.workouts) > 0 {
		a.log.Info("restored workouts", "count", len(a.workouts))
	}
}

func (a *App) render(w models.Workout) {
	if err := a.deps.Map.PlaceMarker(w.Coords, MarkerText(w), MarkerClass(w.Kind)); err != nil {
		a.log.Warn("placing workout marker", "id", w.ID, "error", err)
	}
	a.deps.List.Render(w)
}

// MarkerText is the popup text of a workout marker.
func MarkerText(w models.Workout) string {
	return w.Kind.Icon() + " " + w.Label
}

// MarkerClass is the popup style class of a workout marker.
func MarkerClass(kind models.Kind) string {
	return strings.ToLower(string(kind)) + "-popup"
}

// mapClicked captures the click and opens the form. A click while the form
// is already open moves the pending location.
func (a *App) mapClicked(at models.Coordinates) {
	if !a.state.mapReady() {
		return
	}
	if !at.Valid() {
		a.log.Warn("ignoring map click out of range", "at", at.String())
		return
	}
	a.pending = &at
	a.deps.Form.Show()
	a.deps.Form.FocusDistance()
	a.state = FormOpen
}

// ToggleKind switches the form between the Running and Cycling fields.
func (a *App) ToggleKind(kind models.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}
	a.deps.Form.SelectKind(kind)
	return nil
}

// Submit reads and validates the form and, on success, records the workout
// at the captured click location. The new workout is appended, drawn on the
// map and the list, and the full list is saved, in that order. The form is
// then cleared and hidden.
//
// A rejected submission changes nothing but the notice queue and returns an
// error matching ErrValidation. A failed save still returns the workout,
// together with an error matching ErrStorage; SyncPending then reports true.
func (a *App) Submit(ctx context.Context) (models.Workout, error) {
	if a.state != FormOpen || a.pending == nil {
		return models.Workout{}, fmt.Errorf("%w: no map location selected", ErrNotReady)
	}

	w, err := a.build(a.deps.Form.Values(), *a.pending)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			observability.RecordValidationFailure(string(ve.Kind))
		}
		a.deps.Notifier.Notify(NoticeInvalidInput)
		return models.Workout{}, err
	}

	a.workouts = append(a.workouts, w)
	a.render(w)
	saveErr := a.save(ctx)

	a.deps.Form.Clear()
	a.deps.Form.Hide()
	a.pending = nil
	a.state = Idle

	observability.RecordWorkoutCreated(string(w.Kind))
	observability.SetWorkoutsTracked(len(a.workouts))
	a.log.Info("workout recorded", "id", w.ID, "kind", w.Kind, "label", w.Label)

	if saveErr != nil {
		a.deps.Notifier.Notify(NoticeSaveFailed)
		return w, fmt.Errorf("%w: %w", ErrStorage, saveErr)
	}
	return w, nil
}

func (a *App) build(v ui.FormValues, at models.Coordinates) (models.Workout, error) {
	kind, err := models.ParseKind(v.Kind)
	if err != nil {
		return models.Workout{}, &ValidationError{Fields: []string{ui.FieldType}}
	}

	distance := validate.ParseNumber(v.Distance)
	duration := validate.ParseNumber(v.Duration)
	var bad []string
	check := func(field string, value float64, positive bool) {
		if !validate.AllFinite(value) || (positive && !validate.AllPositive(value)) {
			bad = append(bad, field)
		}
	}
	check(ui.FieldDistance, distance, true)
	check(ui.FieldDuration, duration, true)

	switch kind {
	case models.Running:
		cadence := validate.ParseNumber(v.Cadence)
		check(ui.FieldCadence, cadence, true)
		if len(bad) > 0 {
			return models.Workout{}, &ValidationError{Kind: kind, Fields: bad}
		}
		return models.NewRunning(at, distance, duration, cadence, a.now())
	default:
		elevation := validate.ParseNumber(v.Elevation)
		check(ui.FieldElevation, elevation, false)
		if len(bad) > 0 {
			return models.Workout{}, &ValidationError{Kind: kind, Fields: bad}
		}
		return models.NewCycling(at, distance, duration, elevation, a.now())
	}
}

func (a *App) save(ctx context.Context) error {
	started := time.Now()
	err := a.deps.Store.Save(ctx, a.workouts)
	observability.RecordSave(started, err)
	a.syncPending = err != nil
	return err
}

// Focus pans the map to the workout with id. It reports false, doing
// nothing, when no such workout is held.
func (a *App) Focus(id string) bool {
	w, ok := a.Workout(id)
	if !ok || !a.state.mapReady() {
		return false
	}
	if err := a.deps.Map.Recenter(w.Coords, a.zoom, true); err != nil {
		a.log.Warn("recentering map", "id", id, "error", err)
		return false
	}
	return true
}

// Sync saves the full in-memory list again, closing the window left by a
// failed save.
func (a *App) Sync(ctx context.Context) error {
	if !a.state.mapReady() {
		return fmt.Errorf("%w: session not started", ErrNotReady)
	}
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// SyncPending reports whether the in-memory list is ahead of the store.
func (a *App) SyncPending() bool { return a.syncPending }

func (a *App) State() State { return a.state }

// PendingLocation returns the captured click while the form is open.
func (a *App) PendingLocation() (models.Coordinates, bool) {
	if a.pending == nil {
		return models.Coordinates{}, false
	}
	return *a.pending, true
}

// Workouts returns a copy of the in-memory list in creation order.
func (a *App) Workouts() []models.Workout {
	return append([]models.Workout{}, a.workouts...)
}

func (a *App) Workout(id string) (models.Workout, bool) {
	for _, w := range a.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}
