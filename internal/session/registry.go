// Package session maps opaque bearer tokens to authenticated identities.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/thenoetrevino/checklist/internal/types"
)

// DefaultTTL matches the lifetime of the session cookie
const DefaultTTL = 24 * time.Hour

// tokenBytes gives 256 bits of entropy per token
const tokenBytes = 32

// Identity is the user a session token resolves to
type Identity struct {
	UserID   types.UserID
	Username string
}

type entry struct {
	identity  Identity
	expiresAt time.Time
}

// Registry is a process-local session table guarded by one mutex.
// It starts empty and is never persisted, so a restart logs everyone out.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
	random   func([]byte) (int, error)
}

// Option configures a Registry
type Option func(*Registry)

// WithTTL sets how long a token stays valid after issuance
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]entry),
		ttl:      DefaultTTL,
		now:      time.Now,
		random:   rand.Read,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TTL returns the configured session lifetime
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Create issues a new token for the identity and returns it with its expiry
func (r *Registry) Create(userID types.UserID, username string) (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := r.random(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	expiresAt := now.Add(r.ttl)
	r.sessions[token] = entry{
		identity:  Identity{UserID: userID, Username: username},
		expiresAt: expiresAt,
	}
	return token, expiresAt, nil
}

// Resolve returns the identity for token. Unknown and expired tokens
// resolve to false; expired ones are dropped on the way.
func (r *Registry) Resolve(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[token]
	if !ok {
		return Identity{}, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.sessions, token)
		return Identity{}, false
	}
	return e.identity, true
}

// Revoke removes token; revoking an unknown token is a no-op
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// Len returns the number of live (unexpired) sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())
	return len(r.sessions)
}

func (r *Registry) pruneLocked(now time.Time) {
	for token, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, token)
		}
	}
}
