package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// sessionResponse is returned by login and session restore: the identity plus
// the views it may navigate to (the frontend builds its nav from this).
type sessionResponse struct {
	Token    string          `json:"token,omitempty"`
	Identity domain.Identity `json:"identity"`
	Views    []string        `json:"views"`
}

// PostLogin handles POST /auth/login.
// It authenticates the employee and returns a session token plus the
// identity. Failures are always the same generic 401 regardless of whether
// the employee ID or the password was wrong.
func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	identity, token, err := s.sessions.Login(r.Context(), strings.TrimSpace(req.EmployeeID), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:    token,
		Identity: identity,
		Views:    s.visibleViews(identity.Role),
	})
}

// PostLogout handles POST /auth/logout.
// It revokes the presented session token. Logging out without a token is not
// an error; the response is 204 either way.
func (s *Server) PostLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		if err := s.sessions.Logout(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /auth/session.
// It restores the session for the presented token, re-announcing the identity
// to session observers (the page-reload path), and returns the identity with
// its visible views.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Error: errorDetail{Code: "authentication_error", Message: "missing bearer token"},
		})
		return
	}

	identity, err := s.sessions.Restore(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Identity: identity,
		Views:    s.visibleViews(identity.Role),
	})
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
