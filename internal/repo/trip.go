// Package repo contains the persisted trip collection for the FleetFlow
// Navigator API. The collection is stored whole — one JSON payload in the
// local key-value store, rewritten on every mutation. No business logic
// lives here beyond filtering and record stamping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/store"
)

// tripsKey is the store entry holding the serialized trip collection.
const tripsKey = "trips"

// TripRepo defines the persistence operations for finalized trips.
// The service layer depends on this interface, not the concrete store-backed
// implementation, which allows services to be unit-tested with a mock.
type TripRepo interface {
	// Append stamps the trip with a generated ID and submission time, adds it
	// to the collection, persists the whole collection, and returns the
	// stored record. IDs are timestamp-derived and sortable; uniqueness is
	// best-effort, not formally guaranteed.
	Append(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Query returns trips matching every supplied filter (logical AND), in
	// insertion order. Driver and VanID filter by case-insensitive substring,
	// DateFrom/DateTo by inclusive range. When role is RoleDriver the result
	// is additionally restricted to trips whose DriverID equals userID,
	// regardless of filter contents — this check is the security boundary
	// and must not be removed in favor of UI-side hiding.
	Query(ctx context.Context, filter domain.TripFilter, role domain.Role, userID string) ([]domain.Trip, error)

	// List returns the full collection in insertion order.
	List(ctx context.Context) ([]domain.Trip, error)
}

// kvTripRepo persists the collection as a single JSON entry in a KV store.
type kvTripRepo struct {
	kv  store.KV
	log *slog.Logger

	// mu serializes the read-modify-write cycle in Append. The modeled
	// domain is event-serial, but the HTTP server is not.
	mu sync.Mutex

	now func() time.Time // test seam
}

// NewTripRepo constructs a TripRepo backed by the provided key-value store.
func NewTripRepo(kv store.KV, log *slog.Logger) TripRepo {
	return &kvTripRepo{kv: kv, log: log, now: time.Now}
}

// Append stamps and stores a finalized trip.
func (r *kvTripRepo) Append(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips := r.load(ctx)

	now := r.now().UTC()
	trip.ID = newTripID(now)
	trip.SubmittedAt = now

	trips = append(trips, trip)

	payload, err := json.Marshal(trips)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Append: marshal collection: %w", err)
	}
	if err := r.kv.Put(ctx, tripsKey, payload); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Append: %w", err)
	}
	return trip, nil
}

// Query filters the collection. Always returns a non-nil slice so callers
// can safely range over it; nothing matching is not an error.
func (r *kvTripRepo) Query(ctx context.Context, filter domain.TripFilter, role domain.Role, userID string) ([]domain.Trip, error) {
	r.mu.Lock()
	trips := r.load(ctx)
	r.mu.Unlock()

	matched := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if !matches(t, filter) {
			continue
		}
		if role == domain.RoleDriver && t.DriverID != userID {
			continue
		}
		matched = append(matched, t)
	}
	return matched, nil
}

// List returns every stored trip in insertion order.
func (r *kvTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	r.mu.Lock()
	trips := r.load(ctx)
	r.mu.Unlock()

	out := make([]domain.Trip, len(trips))
	copy(out, trips)
	return out, nil
}

// load deserializes the stored collection. An absent entry or a payload that
// fails to unmarshal yields an empty collection — persisted-state corruption
// is logged, never fatal.
func (r *kvTripRepo) load(ctx context.Context) []domain.Trip {
	payload, err := r.kv.Get(ctx, tripsKey)
	if err != nil {
		if !errors.Is(err, store.ErrNoKey) {
			r.log.WarnContext(ctx, "trip collection unreadable, starting empty", "error", err)
		}
		return nil
	}

	var trips []domain.Trip
	if err := json.Unmarshal(payload, &trips); err != nil {
		r.log.WarnContext(ctx, "trip collection corrupt, starting empty", "error", err)
		return nil
	}
	return trips
}

// matches reports whether the trip satisfies every supplied filter criterion.
func matches(t domain.Trip, f domain.TripFilter) bool {
	if f.Driver != "" && !strings.Contains(strings.ToLower(t.DriverName), strings.ToLower(f.Driver)) {
		return false
	}
	if f.VanID != "" && !strings.Contains(strings.ToLower(t.VanID), strings.ToLower(f.VanID)) {
		return false
	}
	// ISO dates compare correctly as strings.
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	return true
}

// newTripID derives a display-friendly trip ID from the submission time:
// "TRIP-" plus the upper-cased base-36 encoding of the unix millisecond
// timestamp. Sortable by creation time; collision probability is accepted
// as negligible.
func newTripID(now time.Time) string {
	return "TRIP-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}
