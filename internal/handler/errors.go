package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/sheets"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck — headers already sent, nothing useful to do on failure.
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the HTTP taxonomy and writes the JSON
// error body. Unknown errors become a generic 500 so internal detail never
// leaks to clients; the real error is logged by the request logger upstream.
func writeError(w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		code   = "internal_error"
		msg    = "internal server error"
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code, msg = http.StatusUnprocessableEntity, "validation_error", err.Error()
	case errors.Is(err, domain.ErrStopIndex):
		status, code, msg = http.StatusUnprocessableEntity, "index_out_of_range", err.Error()
	case errors.Is(err, domain.ErrAuthentication):
		status, code, msg = http.StatusUnauthorized, "authentication_error", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, sheets.ErrNotAuthenticated):
		status, code, msg = http.StatusConflict, "sheets_not_authenticated", "spreadsheet service is not authenticated"
	default:
		slog.Error("unhandled handler error", "error", err)
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// writeBadRequest reports a malformed request (unparseable body or path
// parameter) with a 400.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}
