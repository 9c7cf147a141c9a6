// Package session manages the authenticated identity: login against the
// credential directory, token issuance and verification, logout revocation,
// and startup restore. Identity changes are broadcast to subscribers
// synchronously, so role-sensitive components (the view router, navigation
// visibility) are consistent before the caller regains control.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fleetflow/navigator/backend/internal/domain"
	"github.com/fleetflow/navigator/backend/internal/store"
)

// Authenticator is the slice of the credential directory the manager needs.
type Authenticator interface {
	Authenticate(employeeID, password string) (domain.Identity, error)
}

// Manager owns session state. Tokens are HS256 JWTs whose jti claim keys a
// persisted copy of the identity in the local store; deleting that entry on
// logout revokes the token even before it expires.
type Manager struct {
	auth   Authenticator
	kv     store.KV
	secret []byte
	ttl    time.Duration
	log    *slog.Logger

	mu      sync.Mutex
	current *domain.Identity
	subs    []func(*domain.Identity)

	now func() time.Time // test seam
}

// NewManager constructs a Manager. ttl bounds token lifetime; the persisted
// session entry is the revocation authority within that window.
func NewManager(auth Authenticator, kv store.KV, secret []byte, ttl time.Duration, log *slog.Logger) *Manager {
	return &Manager{auth: auth, kv: kv, secret: secret, ttl: ttl, log: log, now: time.Now}
}

// Subscribe registers fn to be called on every identity change (login,
// logout, restore). fn receives the new identity, or nil on sign-out.
// Subscribers run synchronously in subscription order before the mutating
// call returns.
func (m *Manager) Subscribe(fn func(*domain.Identity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Current returns the active identity, or nil when signed out.
func (m *Manager) Current() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// Login authenticates the credentials, persists the identity under a fresh
// session key, and returns the identity with its signed token. Failure
// leaves no session state behind.
func (m *Manager) Login(ctx context.Context, employeeID, password string) (domain.Identity, string, error) {
	identity, err := m.auth.Authenticate(employeeID, password)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("session.Manager.Login: %w", err)
	}

	jti := uuid.NewString()
	now := m.now()

	claims := jwt.MapClaims{
		"sub":  identity.ID,
		"name": identity.Name,
		"role": string(identity.Role),
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("session.Manager.Login: sign token: %w", err)
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("session.Manager.Login: marshal identity: %w", err)
	}
	if err := m.kv.Put(ctx, sessionKey(jti), payload); err != nil {
		return domain.Identity{}, "", fmt.Errorf("session.Manager.Login: persist session: %w", err)
	}

	m.setCurrent(&identity)
	return identity, token, nil
}

// Verify validates a token and returns the identity it grants, without
// touching the active-identity state. Used by the auth middleware on every
// request. A revoked session (entry deleted by Logout) or any parse/expiry
// failure yields domain.ErrAuthentication.
func (m *Manager) Verify(ctx context.Context, token string) (domain.Identity, error) {
	jti, err := m.parseJTI(token)
	if err != nil {
		return domain.Identity{}, err
	}

	payload, err := m.kv.Get(ctx, sessionKey(jti))
	if err != nil {
		if errors.Is(err, store.ErrNoKey) {
			return domain.Identity{}, domain.ErrAuthentication
		}
		return domain.Identity{}, fmt.Errorf("session.Manager.Verify: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		// A corrupt session entry is indistinguishable from no session.
		m.log.WarnContext(ctx, "session entry corrupt", "error", err)
		return domain.Identity{}, domain.ErrAuthentication
	}
	return identity, nil
}

// Restore re-establishes the active identity from a persisted session, as on
// application startup. Unlike Verify it updates the active identity and
// notifies subscribers.
func (m *Manager) Restore(ctx context.Context, token string) (domain.Identity, error) {
	identity, err := m.Verify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	m.setCurrent(&identity)
	return identity, nil
}

// Logout revokes the token's session, clears the active identity, and
// notifies subscribers. An already-invalid token still clears local state.
func (m *Manager) Logout(ctx context.Context, token string) error {
	jti, err := m.parseJTI(token)
	if err == nil {
		if derr := m.kv.Delete(ctx, sessionKey(jti)); derr != nil {
			return fmt.Errorf("session.Manager.Logout: %w", derr)
		}
	}
	m.setCurrent(nil)
	return nil
}

// setCurrent swaps the active identity and notifies subscribers
// synchronously, outside the lock, in subscription order.
func (m *Manager) setCurrent(identity *domain.Identity) {
	m.mu.Lock()
	m.current = identity
	subs := make([]func(*domain.Identity), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

// parseJTI validates the token signature and expiry and extracts the jti.
func (m *Manager) parseJTI(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrAuthentication
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrAuthentication
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", domain.ErrAuthentication
	}
	return jti, nil
}

func sessionKey(jti string) string {
	return "session/" + jti
}
