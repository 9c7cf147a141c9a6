package builder

import "sync"

// Registry hands out one Builder per user so each logged-in driver edits
// their own in-progress trip sheet. Builders live in memory only; an
// unsubmitted draft does not survive a server restart, matching the
// pre-submission lifecycle of the trip form.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]*Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Builder)}
}

// For returns the builder owned by userID, creating a fresh one (with its
// single blank stop) on first use.
func (r *Registry) For(userID string) *Builder {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byUser[userID]
	if !ok {
		b = New()
		r.byUser[userID] = b
	}
	return b
}

// Drop discards userID's builder, if any. The next For call starts from a
// clean form.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}
