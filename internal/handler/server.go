// Package handler implements the HTTP handlers for the FleetFlow Navigator
// API. All handlers are methods on Server; methods are split into
// domain-specific files (auth.go, trip.go, builder.go, etc.) but all share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetflow/navigator/backend/internal/builder"
	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/middleware"
	"github.com/fleetflow/navigator/backend/internal/sheets"
	"github.com/fleetflow/navigator/backend/internal/view"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type TripServicer interface {
	Builder(identity domain.Identity) *builder.Builder
	Submit(ctx context.Context, identity domain.Identity, form domain.TripForm) (domain.Trip, error)
	Query(ctx context.Context, filter domain.TripFilter, identity domain.Identity) ([]domain.Trip, error)
	Dashboard(ctx context.Context, date string) (domain.DashboardStats, error)
}

// SessionServicer defines the session operations the auth handlers depend on.
type SessionServicer interface {
	Login(ctx context.Context, employeeID, password string) (domain.Identity, string, error)
	Logout(ctx context.Context, token string) error
	Restore(ctx context.Context, token string) (domain.Identity, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// SheetsClient extends the core sync interface with the token hand-off the
// spreadsheet endpoints need.
type SheetsClient interface {
	sheets.Client
	SetToken(token string)
	ClearToken()
}

// PrefServicer defines the preference operations the preference handlers
// depend on.
type PrefServicer interface {
	DarkMode(ctx context.Context, userID string) (bool, error)
	SetDarkMode(ctx context.Context, userID string, enabled bool) error
}

// Server implements all API endpoints. Wire it in main.go via Routes.
type Server struct {
	trips    TripServicer
	sessions SessionServicer
	router   *view.Router
	sheets   SheetsClient
	prefs    PrefServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, sessions SessionServicer, router *view.Router, sc SheetsClient, prefs PrefServicer) *Server {
	return &Server{trips: trips, sessions: sessions, router: router, sheets: sc, prefs: prefs}
}

// Routes mounts every endpoint on a fresh chi router. Authentication and
// the manager-only gate are applied per route group; rate limiting on the
// login endpoint is wired here so the limit travels with the route.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.NewRateLimitHandler(10, 5)).Post("/login", s.PostLogin)
		r.Post("/logout", s.PostLogout)
		r.Get("/session", s.GetSession)
	})

	// Everything below requires a valid session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthHandler(s.sessions))

		r.Get("/trips", s.ListTrips)
		r.Get("/trips/export", s.ExportTrips)

		r.Route("/builder", func(r chi.Router) {
			r.Get("/", s.GetBuilder)
			r.Post("/stops", s.AddStop)
			r.Patch("/stops/{index}", s.UpdateStop)
			r.Delete("/stops/{index}", s.RemoveStop)
			r.Put("/odometers", s.SetOdometers)
			r.Post("/submit", s.SubmitTrip)
		})

		r.Get("/dashboard", s.GetDashboard)

		r.Get("/views", s.GetViews)
		r.Post("/views/navigate", s.Navigate)

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/darkmode", s.GetDarkMode)
			r.Put("/darkmode", s.PutDarkMode)
		})

		// Spreadsheet workspace is a manager-only surface, mirroring the
		// view router's visibility rule.
		r.Route("/sheets", func(r chi.Router) {
			r.Use(middleware.RequireManager)

			r.Post("/token", s.SetSheetsToken)
			r.Delete("/token", s.ClearSheetsToken)
			r.Get("/trips", s.LoadSheetTrips)
			r.Post("/export", s.ExportToSheet)
		})
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
