// Package service contains the business logic for the FleetFlow Navigator
// API. Services validate inputs, enforce business rules, and orchestrate
// repo, builder, and spreadsheet-sync calls. No storage or HTTP concerns
// live here — services depend on interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fleetflow/navigator/backend/internal/builder"
	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/repo"
	"github.com/fleetflow/navigator/backend/internal/sheets"
)

// TripService implements trip submission, querying, and dashboard
// aggregation.
type TripService struct {
	repo     repo.TripRepo
	builders *builder.Registry
	sheets   sheets.Client // nil disables spreadsheet sync entirely
	log      *slog.Logger
}

// NewTripService constructs a TripService. Pass a nil sheets client to run
// without spreadsheet sync (e.g. the CLI).
func NewTripService(r repo.TripRepo, builders *builder.Registry, sc sheets.Client, log *slog.Logger) *TripService {
	return &TripService{repo: r, builders: builders, sheets: sc, log: log}
}

// Builder returns the submitting identity's trip-in-progress.
func (s *TripService) Builder(identity domain.Identity) *builder.Builder {
	return s.builders.For(identity.ID)
}

// Submit finalizes the identity's builder state against the form fields and
// appends the resulting trip to the repository. The submitter's DriverID and
// SubmittedBy are stamped from the session, never from the form. On success
// the builder resets to a fresh single-stop state and the trip is forwarded
// to the spreadsheet collaborator fire-and-forget: a sync failure is logged,
// never surfaced, and never rolls back the local save.
func (s *TripService) Submit(ctx context.Context, identity domain.Identity, form domain.TripForm) (domain.Trip, error) {
	b := s.builders.For(identity.ID)

	draft, err := b.Submit(form)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Submit: %w", err)
	}

	draft.DriverID = identity.ID
	draft.SubmittedBy = identity.ID

	stored, err := s.repo.Append(ctx, draft)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Submit: %w", err)
	}

	b.Reset()

	if s.sheets != nil && s.sheets.IsAuthenticated() {
		// Detached from the request context: the caller's response must not
		// wait on (or cancel) the sync attempt.
		syncCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.sheets.AppendTrip(syncCtx, stored); err != nil {
				s.log.Error("spreadsheet sync failed", "trip_id", stored.ID, "error", err)
			}
		}()
	}

	return stored, nil
}

// Query returns the trips visible to the identity under the given filters.
// The driver-role restriction is applied inside the repository query.
func (s *TripService) Query(ctx context.Context, filter domain.TripFilter, identity domain.Identity) ([]domain.Trip, error) {
	trips, err := s.repo.Query(ctx, filter, identity.Role, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Query: %w", err)
	}
	return trips, nil
}

// Dashboard aggregates the collection for one calendar date: trip count,
// summed miles and wait, distinct drivers, plus the five most recently
// submitted trips overall in reverse-submission order.
func (s *TripService) Dashboard(ctx context.Context, date string) (domain.DashboardStats, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("service.TripService.Dashboard: %w", err)
	}

	stats := domain.DashboardStats{Date: date, Recent: []domain.Trip{}}
	var miles float64
	drivers := make(map[string]struct{})

	for _, t := range trips {
		if t.Date != date {
			continue
		}
		stats.TripCount++
		stats.TotalWait += t.TotalWait
		if m, err := strconv.ParseFloat(t.TotalMiles, 64); err == nil {
			miles += m
		}
		drivers[t.DriverID] = struct{}{}
	}
	stats.TotalMiles = strconv.FormatFloat(miles, 'f', 1, 64)
	stats.ActiveDrivers = len(drivers)

	for i := len(trips) - 1; i >= 0 && len(stats.Recent) < 5; i-- {
		stats.Recent = append(stats.Recent, trips[i])
	}
	return stats, nil
}
