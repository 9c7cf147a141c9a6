package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/middleware"
	"github.com/fleetflow/navigator/backend/internal/view"
)

// viewsResponse reports the active view and the views reachable by the
// caller's role.
type viewsResponse struct {
	Current string   `json:"current"`
	Visible []string `json:"visible"`
}

// GetViews handles GET /views.
func (s *Server) GetViews(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())
	writeJSON(w, http.StatusOK, viewsResponse{
		Current: string(s.router.Current()),
		Visible: s.visibleViews(identity.Role),
	})
}

// navigateRequest is the body of POST /views/navigate.
type navigateRequest struct {
	View string `json:"view"`
}

// Navigate handles POST /views/navigate.
// It switches the active view. Unknown views return 404; manager-only views
// return 403 for drivers. Subscribers run before the response is written, so
// view-specific loads have completed by the time the client sees the answer.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.Identity(r.Context())

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.router.NavigateTo(view.View(req.View), identity.Role); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewsResponse{
		Current: string(s.router.Current()),
		Visible: s.visibleViews(identity.Role),
	})
}

// visibleViews converts the router's visibility list to plain strings.
func (s *Server) visibleViews(role domain.Role) []string {
	views := s.router.Visible(role)
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = string(v)
	}
	return out
}
