package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fleetflow/navigator/backend/internal/middleware"
)

// darkModeBody is both the GET response and the PUT request shape for the
// dark-mode preference.
type darkModeBody struct {
	DarkMode bool `json:"darkMode"`
}

// GetDarkMode handles GET /preferences/darkmode.
// Absent preference reads as true; the interface ships dark.
func (s *Server) GetDarkMode(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	enabled, err := s.prefs.DarkMode(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, darkModeBody{DarkMode: enabled})
}

// PutDarkMode handles PUT /preferences/darkmode.
func (s *Server) PutDarkMode(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	var req darkModeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.prefs.SetDarkMode(r.Context(), identity.ID, req.DarkMode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, darkModeBody{DarkMode: req.DarkMode})
}
