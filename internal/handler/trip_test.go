package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// ---- trips -----------------------------------------------------------------

func TestListTrips_PassesFiltersAndIdentity(t *testing.T) {
	h := newHarness(t)
	var gotFilter domain.TripFilter
	var gotIdentity domain.Identity
	h.trips.query = func(_ context.Context, filter domain.TripFilter, identity domain.Identity) ([]domain.Trip, error) {
		gotFilter, gotIdentity = filter, identity
		return []domain.Trip{{ID: "TRIP-1"}}, nil
	}

	rec := h.do(t, http.MethodGet,
		"/trips?date_from=2024-01-01&date_to=2024-01-31&driver=john&van=van-1",
		"driver-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TripFilter{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-31",
		Driver:   "john",
		VanID:    "van-1",
	}, gotFilter)
	assert.Equal(t, "driver1", gotIdentity.ID)

	var resp struct {
		Trips []domain.Trip `json:"trips"`
		Count int           `json:"count"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)
}

func TestListTrips_EmptyResult(t *testing.T) {
	h := newHarness(t)
	h.trips.query = func(context.Context, domain.TripFilter, domain.Identity) ([]domain.Trip, error) {
		return []domain.Trip{}, nil
	}

	rec := h.do(t, http.MethodGet, "/trips", "manager-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"trips":[],"count":0}`, rec.Body.String())
}

func TestExportTrips_CSVAttachment(t *testing.T) {
	h := newHarness(t)
	h.trips.query = func(context.Context, domain.TripFilter, domain.Identity) ([]domain.Trip, error) {
		return []domain.Trip{{
			ID: "TRIP-1", Date: "2024-01-01", DriverName: "John Driver", VanID: "VAN-1",
			SubmittedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		}}, nil
	}

	rec := h.do(t, http.MethodGet, "/trips/export", "manager-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="trips_export_`)
	assert.Contains(t, rec.Body.String(), "Trip ID,Date,Driver Name")
	assert.Contains(t, rec.Body.String(), "TRIP-1,2024-01-01,John Driver")
}

// ---- builder ---------------------------------------------------------------

func TestGetBuilder_InitialState(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/builder", "driver-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Stops      []domain.Stop `json:"stops"`
		TotalWait  int           `json:"totalWait"`
		TotalMiles string        `json:"totalMiles"`
	}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Stops, 1)
	assert.Equal(t, 1, resp.Stops[0].Number)
	assert.Zero(t, resp.TotalWait)
}

func TestBuilderFlow_AddUpdateRemove(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/builder/stops", "driver-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPatch, "/builder/stops/1", "driver-token",
		`{"field":"wait","value":"25"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Stops     []domain.Stop `json:"stops"`
		TotalWait int           `json:"totalWait"`
	}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Stops, 2)
	assert.Equal(t, 25, resp.TotalWait)

	rec = h.do(t, http.MethodDelete, "/builder/stops/0", "driver-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Stops, 1)
	// The surviving stop is renumbered and keeps its wait.
	assert.Equal(t, 1, resp.Stops[0].Number)
	assert.Equal(t, 25, resp.TotalWait)
}

func TestUpdateStop_IndexOutOfRange_Returns422(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPatch, "/builder/stops/9", "driver-token",
		`{"field":"wait","value":"5"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "index_out_of_range")
}

func TestUpdateStop_UnknownField_Returns422(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPatch, "/builder/stops/0", "driver-token",
		`{"field":"color","value":"red"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestUpdateStop_NonNumericIndex_Returns400(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPatch, "/builder/stops/first", "driver-token",
		`{"field":"wait","value":"5"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetOdometers_RecomputesTotals(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPut, "/builder/odometers", "driver-token",
		`{"starting":"100","eot":"150"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		StartingOdometer string `json:"startingOdometer"`
		EOTOdometer      string `json:"eotOdometer"`
		TotalMiles       string `json:"totalMiles"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "100", resp.StartingOdometer)
	assert.Equal(t, "150", resp.EOTOdometer)
	assert.Equal(t, "50.0", resp.TotalMiles)
}

func TestSubmitTrip_Returns201WithStoredTrip(t *testing.T) {
	h := newHarness(t)
	h.trips.submit = func(_ context.Context, identity domain.Identity, form domain.TripForm) (domain.Trip, error) {
		require.Equal(t, "driver1", identity.ID)
		require.Equal(t, "VAN-1", form.VanID)
		return domain.Trip{ID: "TRIP-NEW", DriverID: identity.ID}, nil
	}

	rec := h.do(t, http.MethodPost, "/builder/submit", "driver-token",
		`{"driverName":"John Driver","date":"2024-01-01","vanId":"VAN-1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var trip domain.Trip
	decodeJSON(t, rec, &trip)
	assert.Equal(t, "TRIP-NEW", trip.ID)
}

func TestSubmitTrip_ValidationError_Returns422(t *testing.T) {
	h := newHarness(t)
	h.trips.submit = func(context.Context, domain.Identity, domain.TripForm) (domain.Trip, error) {
		return domain.Trip{}, domain.ErrValidation
	}

	rec := h.do(t, http.MethodPost, "/builder/submit", "driver-token", `{}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestBuilder_PerUserIsolation(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/builder/stops", "driver-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The manager's builder is untouched by the driver's edits.
	rec = h.do(t, http.MethodGet, "/builder", "manager-token", "")
	var resp struct {
		Stops []domain.Stop `json:"stops"`
	}
	decodeJSON(t, rec, &resp)
	assert.Len(t, resp.Stops, 1)
}

// ---- dashboard -------------------------------------------------------------

func TestGetDashboard_ExplicitDate(t *testing.T) {
	h := newHarness(t)
	h.trips.dashboard = func(_ context.Context, date string) (domain.DashboardStats, error) {
		require.Equal(t, "2024-01-01", date)
		return domain.DashboardStats{
			Date: date, TripCount: 3, TotalMiles: "75.5", TotalWait: 15,
			ActiveDrivers: 2, Recent: []domain.Trip{},
		}, nil
	}

	rec := h.do(t, http.MethodGet, "/dashboard?date=2024-01-01", "driver-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.DashboardStats
	decodeJSON(t, rec, &stats)
	assert.Equal(t, 3, stats.TripCount)
	assert.Equal(t, "75.5", stats.TotalMiles)
}

func TestGetDashboard_DefaultsToToday(t *testing.T) {
	h := newHarness(t)
	var gotDate string
	h.trips.dashboard = func(_ context.Context, date string) (domain.DashboardStats, error) {
		gotDate = date
		return domain.DashboardStats{Date: date, Recent: []domain.Trip{}}, nil
	}

	rec := h.do(t, http.MethodGet, "/dashboard", "driver-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), gotDate)
}
