package handler

import (
	"net/http"
	"time"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/middleware"
	"github.com/fleetflow/navigator/backend/internal/service"
)

// ListTrips handles GET /trips.
// Query parameters date_from, date_to, driver, and van filter the result;
// drivers only ever see their own trips regardless of filters.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	trips, err := s.trips.Query(r.Context(), filterFromQuery(r), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trips": trips, "count": len(trips)})
}

// ExportTrips handles GET /trips/export.
// It streams the filtered trips as a CSV attachment named for today's date.
// The same role restriction as ListTrips applies, so a driver's export only
// ever contains their own trips.
func (s *Server) ExportTrips(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	trips, err := s.trips.Query(r.Context(), filterFromQuery(r), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename(time.Now())+`"`)
	//nolint:errcheck
	w.Write(service.BuildCSV(trips))
}

// filterFromQuery reads the trip filter criteria from query parameters.
func filterFromQuery(r *http.Request) domain.TripFilter {
	q := r.URL.Query()
	return domain.TripFilter{
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		Driver:   q.Get("driver"),
		VanID:    q.Get("van"),
	}
}
