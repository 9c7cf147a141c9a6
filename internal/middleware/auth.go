package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// TokenVerifier is the slice of the session manager the auth middleware
// needs: per-request token verification without touching session state.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// identityKey is the context key under which the authenticated identity is
// stored. Unexported struct type prevents collisions with other packages.
type identityKey struct{}

// Identity returns the authenticated identity stored by NewAuthHandler.
// The second return is false on requests that never passed the middleware.
func Identity(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the identity. Exposed for handler
// tests that bypass the middleware.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// NewAuthHandler returns a middleware that requires a valid bearer token on
// every request it guards. The verified identity is placed in the request
// context for handlers to read via Identity.
func NewAuthHandler(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, "missing bearer token")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeAuthError(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireManager returns a middleware that rejects non-manager identities
// with 403. Wire it after NewAuthHandler. This is the endpoint-level face of
// the manager-only rule; the repository query restricts data by role
// independently.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := Identity(r.Context())
		if !ok || identity.Role != domain.RoleManager {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			//nolint:errcheck
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "forbidden", "message": "manager role required"},
			})
			return
		}
		next.ServeHTTP(w, r)
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

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "authentication_error", "message": message},
	})
}
