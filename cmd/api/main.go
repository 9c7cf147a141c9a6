// Package main is the entry point for the FleetFlow Navigator API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pressly/goose/v3"

	"github.com/fleetflow/navigator/backend/internal/builder"
	"github.com/fleetflow/navigator/backend/internal/config"
	"github.com/fleetflow/navigator/backend/internal/directory"
	"github.com/fleetflow/navigator/backend/internal/handler"
	"github.com/fleetflow/navigator/backend/internal/middleware"
	"github.com/fleetflow/navigator/backend/internal/repo"
	"github.com/fleetflow/navigator/backend/internal/service"
	"github.com/fleetflow/navigator/backend/internal/session"
	"github.com/fleetflow/navigator/backend/internal/sheets"
	"github.com/fleetflow/navigator/backend/internal/store"
	"github.com/fleetflow/navigator/backend/internal/view"
	"github.com/fleetflow/navigator/backend/migrations"
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = 24 * time.Hour

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		slog.Error("failed to create migration provider", "error", err)
		os.Exit(1)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("store ready", "path", cfg.DBPath)

	kv := store.NewSQLiteKV(db)

	// --- Core wiring ------------------------------------------------------
	dir, err := directory.Default()
	if err != nil {
		slog.Error("failed to build employee directory", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(dir, kv, []byte(cfg.JWTSecret), sessionTTL, logger)
	router := view.NewRouter()
	// A login, logout, or restore that changes the role kicks the router
	// back to a view the new identity may see.
	sessions.Subscribe(router.OnIdentityChange)

	var sheetsClient *sheets.GoogleClient
	var syncClient sheets.Client
	if cfg.SheetID != "" {
		sheetsClient = sheets.NewGoogleClient(cfg.SheetID, logger)
		sheetsClient.Subscribe(func(e sheets.Event) {
			if e == sheets.EventSignedOut {
				logger.Info("spreadsheet sync disabled until next sign-in")
			}
		})
		syncClient = sheetsClient
	} else {
		slog.Info("SHEET_ID not set, spreadsheet sync disabled")
	}

	trips := service.NewTripService(repo.NewTripRepo(kv, logger), builder.NewRegistry(), syncClient, logger)
	prefs := service.NewPrefService(kv)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body-size cap. Route-level auth lives in handler.Routes.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	// An untyped nil keeps the handler's nil check working when sync is off.
	var tokenClient handler.SheetsClient
	if sheetsClient != nil {
		tokenClient = sheetsClient
	}
	srvHandler := handler.NewServer(trips, sessions, router, tokenClient, prefs)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
