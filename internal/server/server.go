package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/claude/mapty/internal/mapview"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session bundles a tracking session with the headless views it draws on.
type Session struct {
	App     *tracker.App
	Board   *mapview.Board
	Form    *ui.Form
	List    *ui.List
	Notices *ui.Notices
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	// mu serializes every call into the session, so user events reach the
	// controller one at a time.
	mu      sync.Mutex
	session Session
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. When apiKey is set,
// the MCP endpoint requires it in the X-API-Key header.
func New(session Session, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		session: session,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.sessionState))
	s.router.Use(CORS)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)

		r.Get("/map", s.handleMap)
		r.Post("/map/click", s.handleMapClick)

		r.Post("/form/type", s.handleFormType)
		r.Post("/form/submit", s.handleFormSubmit)

		r.Get("/list", s.handleList)
		r.Post("/list/{id}/focus", s.handleFocus)

		r.Get("/workouts", s.handleQueryWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/export.gpx", s.handleExportGPX)

		r.Get("/notices", s.handleNotices)
		r.Post("/sync", s.handleSync)
	})
}

// SetMCP mounts an MCP transport at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Route("/mcp", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Handle("/", h)
	})
}

// SetFrontend mounts the embedded web client.
// Unmatched routes serve index.html.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

// sessionState names the controller state for request logs.
func (s *Server) sessionState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.App.State().String()
}

// Workouts returns a copy of the session's workout list. It has the shape of
// mcp.ListSource.List.
func (s *Server) Workouts(_ context.Context) []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.App.Workouts()
}
