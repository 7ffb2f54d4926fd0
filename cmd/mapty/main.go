package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mapty "github.com/claude/mapty"
	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/geolocate"
	"github.com/claude/mapty/internal/mapview"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/server"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/ui"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Mapty starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open the workout store
	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver)

	store := storage.NewWorkouts(kv, log,
		storage.WithKey(cfg.Storage.Key),
		storage.WithSaveAttempts(cfg.Storage.SaveAttempts, cfg.Storage.SaveBackoff),
	)

	// Build the session
	session := server.Session{
		Board:   mapview.NewBoard(cfg.Map.TileURL, cfg.Map.Zoom),
		Form:    ui.NewForm(),
		List:    ui.NewList(),
		Notices: ui.NewNotices(0),
	}
	session.App = tracker.New(tracker.Deps{
		Store:    store,
		Position: positionSource(cfg.Position),
		Map:      session.Board,
		Form:     session.Form,
		List:     session.List,
		Notifier: session.Notices,
		Log:      log,
	},
		tracker.WithZoom(cfg.Map.Zoom),
		tracker.WithPositionOptions(geolocate.Options{
			HighAccuracy: cfg.Position.HighAccuracyEnabled(),
			Timeout:      cfg.Position.Timeout,
		}),
	)

	// A session without a position keeps serving its notices and state.
	if err := session.App.Start(ctx); err != nil {
		log.Warn("session started without a map", "error", err)
	}

	// Create server
	srv := server.New(session, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mcp.ListSource{List: srv.Workouts}, Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Serve embedded frontend
	webDist, err := fs.Sub(mapty.WebFS, "web/dist")
	if err != nil {
		log.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}
	srv.SetFrontend(webDist)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// Flush a list left ahead of the store by a failed save.
	if session.App.SyncPending() {
		if err := session.App.Sync(shutdownCtx); err != nil {
			log.Error("final sync failed", "error", err)
		}
	}
	log.Info("server stopped")
}

// positionSource picks the startup position provider. "none" models an
// environment without geolocation.
func positionSource(cfg config.PositionConfig) geolocate.Source {
	switch cfg.Provider {
	case "http":
		return geolocate.NewHTTPSource(cfg.URL)
	case "none":
		return nil
	default:
		lat, lng := cfg.Fix()
		return geolocate.Static{At: models.Coordinates{Lat: lat, Lng: lng}}
	}
}
