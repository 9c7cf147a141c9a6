package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/middleware"
)

// tokenRequest is the body of POST /sheets/token.
type tokenRequest struct {
	Token string `json:"token"`
}

// requireSheets rejects spreadsheet requests when the server runs without a
// configured spreadsheet (no SHEET_ID). Returns false after writing the
// response.
func (s *Server) requireSheets(w http.ResponseWriter) bool {
	if s.sheets == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error: errorDetail{Code: "sheets_disabled", Message: "spreadsheet integration is not configured"},
		})
		return false
	}
	return true
}

// SetSheetsToken handles POST /sheets/token.
// It accepts the OAuth access token the frontend obtained from Google and
// hands it to the spreadsheet collaborator, turning sync on.
func (s *Server) SetSheetsToken(w http.ResponseWriter, r *http.Request) {
	if !s.requireSheets(w) {
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	s.sheets.SetToken(req.Token)
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// ClearSheetsToken handles DELETE /sheets/token.
// It signs the collaborator out of the spreadsheet service.
func (s *Server) ClearSheetsToken(w http.ResponseWriter, _ *http.Request) {
	if !s.requireSheets(w) {
		return
	}

	s.sheets.ClearToken()
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// LoadSheetTrips handles GET /sheets/trips.
// It reads every data row from the shared spreadsheet, mapped through the
// row layout back into named fields.
func (s *Server) LoadSheetTrips(w http.ResponseWriter, r *http.Request) {
	if !s.requireSheets(w) {
		return
	}

	trips, err := s.sheets.LoadTrips(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": trips, "count": len(trips)})
}

// exportRequest is the body of POST /sheets/export.
type exportRequest struct {
	Filter    domain.TripFilter `json:"filter"`
	SheetName string            `json:"sheetName"`
	StartCell string            `json:"startCell"`
}

// ExportToSheet handles POST /sheets/export.
// It writes the filtered trips as a 7-column summary block (header included)
// to the named sheet starting at the given cell. Sheet name and start cell
// default to "Export" and "A1".
func (s *Server) ExportToSheet(w http.ResponseWriter, r *http.Request) {
	if !s.requireSheets(w) {
		return
	}

	identity, _ := middleware.Identity(r.Context())

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.SheetName == "" {
		req.SheetName = "Export"
	}
	if req.StartCell == "" {
		req.StartCell = "A1"
	}

	trips, err := s.trips.Query(r.Context(), req.Filter, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.sheets.ExportRange(r.Context(), trips, req.SheetName, req.StartCell); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exported": len(trips)})
}
