package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/mapty/internal/export"
	"github.com/claude/mapty/internal/mapview"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/ui"
	"github.com/go-chi/chi/v5"
)

type stateResponse struct {
	State           string              `json:"state"`
	SyncPending     bool                `json:"syncPending"`
	Workouts        int                 `json:"workouts"`
	PendingLocation *models.Coordinates `json:"pendingLocation,omitempty"`
	Form            ui.FormState        `json:"form"`
}

type submitResponse struct {
	Workout     models.Record `json:"workout"`
	SyncPending bool          `json:"syncPending"`
	Warning     string        `json:"warning,omitempty"`
}

type validationResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// state must be called with s.mu held.
func (s *Server) state() stateResponse {
	resp := stateResponse{
		State:       s.session.App.State().String(),
		SyncPending: s.session.App.SyncPending(),
		Workouts:    len(s.session.App.Workouts()),
		Form:        s.session.Form.Snapshot(),
	}
	if at, ok := s.session.App.PendingLocation(); ok {
		resp.PendingLocation = &at
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Board.Snapshot())
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Lat == nil || body.Lng == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	at := models.Coordinates{Lat: *body.Lat, Lng: *body.Lng}
	if !at.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": mapview.ErrInvalidCoordinates.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Board.Click(at); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleFormType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	kind, err := models.ParseKind(body.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.App.ToggleKind(kind); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.session.Form.Snapshot())
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	var values ui.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.App.State() != tracker.FormOpen {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "click the map to choose a location first"})
		return
	}
	s.session.Form.SetValues(values)

	workout, err := s.session.App.Submit(r.Context())
	var ve *tracker.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: tracker.NoticeInvalidInput, Fields: ve.Fields})
	case errors.Is(err, tracker.ErrStorage):
		writeJSON(w, http.StatusCreated, submitResponse{
			Workout:     workout.Record(),
			SyncPending: true,
			Warning:     err.Error(),
		})
	case errors.Is(err, tracker.ErrNotReady):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		s.log.Error("submit error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusCreated, submitResponse{Workout: workout.Record()})
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.List.Entries())
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"focused": s.session.App.Focus(id)})
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	workouts := f.Apply(s.Workouts(r.Context()))
	out := make([]models.Record, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, w.Record())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	workout, ok := s.session.App.Workout(id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, workout.Record())
}

func (s *Server) handleExportGPX(w http.ResponseWriter, r *http.Request) {
	data, err := export.GPX(s.Workouts(r.Context()), time.Now())
	if err != nil {
		s.log.Error("gpx export error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="workouts.gpx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Notices.Drain())
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.session.App.Sync(r.Context())
	switch {
	case errors.Is(err, tracker.ErrNotReady):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": err.Error(), "syncPending": true})
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"syncPending": false})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseFilter reads kind, start and end query params. Without start or end
// the range is open on that side. A date-only end includes that whole day.
func parseFilter(r *http.Request) (models.Filter, error) {
	var f models.Filter
	q := r.URL.Query()

	if k := q.Get("kind"); k != "" {
		kind, err := models.ParseKind(k)
		if err != nil {
			return models.Filter{}, err
		}
		f.Kind = kind
	}

	if startStr := q.Get("start"); startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			start, err = time.Parse("2006-01-02", startStr)
			if err != nil {
				return models.Filter{}, err
			}
		}
		f.Start = start
	}

	if endStr := q.Get("end"); endStr != "" {
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return models.Filter{}, err
			}
			// End of day for date-only
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		f.End = end
	}
	return f, nil
}
