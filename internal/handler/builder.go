package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fleetflow/navigator/backend/internal/builder"
	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/middleware"
)

// builderState is the full trip-in-progress snapshot returned after every
// builder mutation, so the frontend re-renders from one response instead of
// tracking deltas.
type builderState struct {
	Stops            []domain.Stop `json:"stops"`
	StartingOdometer string        `json:"startingOdometer"`
	EOTOdometer      string        `json:"eotOdometer"`
	TotalWait        int           `json:"totalWait"`
	TotalMiles       string        `json:"totalMiles"`
}

// GetBuilder handles GET /builder.
// It returns the caller's current trip-in-progress state.
func (s *Server) GetBuilder(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())
	writeJSON(w, http.StatusOK, snapshotBuilder(s.trips.Builder(identity)))
}

// AddStop handles POST /builder/stops.
// It appends a blank stop to the caller's trip-in-progress.
func (s *Server) AddStop(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())
	b := s.trips.Builder(identity)
	b.AddStop()
	writeJSON(w, http.StatusOK, snapshotBuilder(b))
}

// updateStopRequest is the body of PATCH /builder/stops/{index}.
type updateStopRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateStop handles PATCH /builder/stops/{index}.
// It sets one field of the stop at the 0-based index. Unknown fields are a
// validation error; an out-of-range index is an index error.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "stop index must be an integer")
		return
	}

	var req updateStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	b := s.trips.Builder(identity)
	if err := b.UpdateStop(index, builder.StopField(req.Field), req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotBuilder(b))
}

// RemoveStop handles DELETE /builder/stops/{index}.
// It deletes the stop at the 0-based index and renumbers the remainder.
func (s *Server) RemoveStop(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "stop index must be an integer")
		return
	}

	b := s.trips.Builder(identity)
	if err := b.RemoveStop(index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotBuilder(b))
}

// odometersRequest is the body of PUT /builder/odometers.
type odometersRequest struct {
	Starting string `json:"starting"`
	EOT      string `json:"eot"`
}

// SetOdometers handles PUT /builder/odometers.
// It records the starting and end-of-trip readings and recomputes totals.
func (s *Server) SetOdometers(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	var req odometersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	b := s.trips.Builder(identity)
	b.SetOdometers(req.Starting, req.EOT)
	writeJSON(w, http.StatusOK, snapshotBuilder(b))
}

// SubmitTrip handles POST /builder/submit.
// It finalizes the trip-in-progress against the posted form fields, appends
// the trip to the repository, and returns the stored record with 201.
func (s *Server) SubmitTrip(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	var form domain.TripForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	trip, err := s.trips.Submit(r.Context(), identity, form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// snapshotBuilder reads a consistent view of the builder for the response.
func snapshotBuilder(b *builder.Builder) builderState {
	wait, miles := b.Totals()
	starting, eot := b.Odometers()
	return builderState{
		Stops:            b.Stops(),
		StartingOdometer: starting,
		EOTOdometer:      eot,
		TotalWait:        wait,
		TotalMiles:       miles,
	}
}
