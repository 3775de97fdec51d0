package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCreateResolveRevoke(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	token, expiresAt, err := r.Create(1, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), expiresAt, time.Minute)

	id, ok := r.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, Identity{UserID: 1, Username: "alice"}, id)

	r.Revoke(token)
	_, ok = r.Resolve(token)
	assert.False(t, ok)

	// revoking twice is harmless
	r.Revoke(token)
}

func TestResolve_UnknownAndEmpty(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	_, ok := r.Resolve("")
	assert.False(t, ok)
	_, ok = r.Resolve("not-a-token")
	assert.False(t, ok)
}

func TestTokens_AreUniqueAndLong(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		token, _, err := r.Create(1, "alice")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(token), 43, "32 random bytes base64url encoded")
		assert.False(t, seen[token])
		seen[token] = true
	}
	assert.Equal(t, 200, r.Len())
}

func TestExpiry_EnforcedOnResolve(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(WithTTL(time.Hour), WithClock(clock.Now))

	token, expiresAt, err := r.Create(7, "bob")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), expiresAt)

	clock.Advance(59 * time.Minute)
	_, ok := r.Resolve(token)
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = r.Resolve(token)
	assert.False(t, ok, "token must expire exactly at its deadline")
	assert.Equal(t, 0, r.Len())
}

func TestCreate_PrunesExpired(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(WithTTL(time.Minute), WithClock(clock.Now))

	_, _, err := r.Create(1, "a")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, _, err = r.Create(2, "b")
	require.NoError(t, err)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.sessions, 1)
}

func TestCreate_RandomFailure(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.random = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

	_, _, err := r.Create(1, "alice")
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _, err := r.Create(1, "alice")
			if err != nil {
				return
			}
			r.Resolve(token)
			r.Revoke(token)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
