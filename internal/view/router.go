// Package view tracks the active UI view and which views a role may reach.
// Navigation changes are broadcast synchronously to subscribers (display
// components trigger their view-specific data loads from the notification),
// so every fragment observes the new view before the caller regains control.
package view

import (
	"fmt"
	"sync"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// View names one navigable UI surface.
type View string

const (
	Dashboard   View = "dashboard"
	TripForm    View = "trip-form"
	Database    View = "database"
	Spreadsheet View = "spreadsheet"
)

// all lists every view in display order.
var all = []View{Dashboard, TripForm, Database, Spreadsheet}

// managerOnly marks views that must be hidden from non-managers entirely.
// This is the presentation-side check; repo.TripRepo.Query independently
// restricts data by role and must never be collapsed into this one.
var managerOnly = map[View]bool{
	Database:    true,
	Spreadsheet: true,
}

// Router holds the current view and its subscribers.
type Router struct {
	mu      sync.Mutex
	current View
	subs    []func(View)
}

// NewRouter returns a router positioned on the dashboard.
func NewRouter() *Router {
	return &Router{current: Dashboard}
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn to run on every navigation, synchronously and in
// subscription order.
func (r *Router) Subscribe(fn func(View)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// Visible returns the views reachable by role, in display order.
func (r *Router) Visible(role domain.Role) []View {
	out := make([]View, 0, len(all))
	for _, v := range all {
		if managerOnly[v] && role != domain.RoleManager {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NavigateTo makes v the active view and notifies subscribers. Unknown views
// fail with domain.ErrNotFound; manager-only views fail with
// domain.ErrForbidden for any other role.
func (r *Router) NavigateTo(v View, role domain.Role) error {
	if !known(v) {
		return fmt.Errorf("view.Router.NavigateTo: %q: %w", v, domain.ErrNotFound)
	}
	if managerOnly[v] && role != domain.RoleManager {
		return fmt.Errorf("view.Router.NavigateTo: %q: %w", v, domain.ErrForbidden)
	}
	r.set(v)
	return nil
}

// OnIdentityChange is the session subscriber: when the active identity
// changes and the current view is no longer visible to the new role (or the
// user signed out), the router falls back to the dashboard. Wire it via
// session.Manager.Subscribe.
func (r *Router) OnIdentityChange(identity *domain.Identity) {
	cur := r.Current()
	if identity == nil {
		if cur != Dashboard {
			r.set(Dashboard)
		}
		return
	}
	if managerOnly[cur] && identity.Role != domain.RoleManager {
		r.set(Dashboard)
	}
}

// set swaps the current view and notifies subscribers synchronously,
// outside the lock, in subscription order.
func (r *Router) set(v View) {
	r.mu.Lock()
	r.current = v
	subs := make([]func(View), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

func known(v View) bool {
	for _, k := range all {
		if k == v {
			return true
		}
	}
	return false
}
