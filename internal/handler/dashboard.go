package handler

import (
	"net/http"
	"time"
)

// GetDashboard handles GET /dashboard.
// It aggregates the trip collection for the date given by the "date" query
// parameter, defaulting to today (UTC).
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	stats, err := s.trips.Dashboard(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
