package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skyreport-dev/skyreport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type memStore struct {
	mu       sync.Mutex
	counters map[string]domain.RateCounter

	GetOrCreateErr      error
	IncrementIfBelowErr error
	ResetErr            error
}

func newMemStore() *memStore {
	return &memStore{counters: make(map[string]domain.RateCounter)}
}

func (s *memStore) GetOrCreate(ctx context.Context, key string, resetAt time.Time) (domain.RateCounter, bool, error) {
	if s.GetOrCreateErr != nil {
		return domain.RateCounter{}, false, s.GetOrCreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.counters[key]; ok {
		return c, false, nil
	}
	c := domain.RateCounter{Key: key, Count: 1, ResetAt: resetAt}
	s.counters[key] = c
	return c, true, nil
}

func (s *memStore) IncrementIfBelow(ctx context.Context, key string, max int) (int, bool, error) {
	if s.IncrementIfBelowErr != nil {
		return 0, false, s.IncrementIfBelowErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counters[key]
	if c.Count >= max {
		return c.Count, false, nil
	}
	c.Count++
	s.counters[key] = c
	return c.Count, true, nil
}

func (s *memStore) Reset(ctx context.Context, key string, resetAt time.Time) error {
	if s.ResetErr != nil {
		return s.ResetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] = domain.RateCounter{Key: key, Count: 1, ResetAt: resetAt}
	return nil
}

// --- Tests ---

func TestCheck_AllowsUpToMaxThenDenies(t *testing.T) {
	store := newMemStore()
	limiter := New(store)
	ctx := context.Background()
	key := Key("login", "10.0.0.1")

	for i := 0; i < 5; i++ {
		res := limiter.Check(ctx, key, 5, time.Minute)
		assert.True(t, res.Allowed, "attempt %d should be allowed", i+1)
	}

	res := limiter.Check(ctx, key, 5, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestCheck_RemainingDecreases(t *testing.T) {
	store := newMemStore()
	limiter := New(store)
	ctx := context.Background()
	key := Key("login", "10.0.0.2")

	res := limiter.Check(ctx, key, 3, time.Minute)
	require.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)

	res = limiter.Check(ctx, key, 3, time.Minute)
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res = limiter.Check(ctx, key, 3, time.Minute)
	require.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestCheck_ExpiredWindowStartsOver(t *testing.T) {
	store := newMemStore()
	limiter := New(store)
	ctx := context.Background()
	key := Key("login", "10.0.0.3")

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, key, 2, time.Minute)
	}
	require.False(t, limiter.Check(ctx, key, 2, time.Minute).Allowed)

	// Force the stored window into the past.
	store.mu.Lock()
	c := store.counters[key]
	c.ResetAt = time.Now().Add(-time.Second)
	store.counters[key] = c
	store.mu.Unlock()

	res := limiter.Check(ctx, key, 2, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, 1, store.counters[key].Count)
}

func TestCheck_ShrunkenWindowReplacesStaleCounter(t *testing.T) {
	store := newMemStore()
	limiter := New(store)
	ctx := context.Background()
	key := Key("login", "10.0.0.4")

	// Exhaust the budget under a one hour window.
	for i := 0; i < 3; i++ {
		limiter.Check(ctx, key, 2, time.Hour)
	}
	require.False(t, limiter.Check(ctx, key, 2, time.Hour).Allowed)

	// A shortened window must not stay blocked behind the old hour-long one.
	res := limiter.Check(ctx, key, 2, time.Minute)
	assert.True(t, res.Allowed)
	assert.False(t, res.ResetAt.After(time.Now().Add(time.Minute+time.Second)))
}

func TestCheck_DeniedResetAtClampedToWindow(t *testing.T) {
	store := newMemStore()
	limiter := New(store)
	ctx := context.Background()
	key := Key("login", "10.0.0.5")

	limiter.Check(ctx, key, 1, time.Minute)
	res := limiter.Check(ctx, key, 1, time.Minute)

	require.False(t, res.Allowed)
	assert.False(t, res.ResetAt.After(time.Now().Add(time.Minute+time.Second)))
	retry := res.RetryAfter(time.Now())
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)
}

func TestCheck_FailsOpenOnStoreErrors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	t.Run("GetOrCreate error", func(t *testing.T) {
		store := newMemStore()
		store.GetOrCreateErr = storeErr
		res := New(store).Check(ctx, Key("login", "10.0.0.6"), 5, time.Minute)
		assert.True(t, res.Allowed)
	})

	t.Run("IncrementIfBelow error", func(t *testing.T) {
		store := newMemStore()
		limiter := New(store)
		key := Key("login", "10.0.0.7")
		limiter.Check(ctx, key, 5, time.Minute)

		store.IncrementIfBelowErr = storeErr
		res := limiter.Check(ctx, key, 5, time.Minute)
		assert.True(t, res.Allowed)
	})

	t.Run("Reset error", func(t *testing.T) {
		store := newMemStore()
		limiter := New(store)
		key := Key("login", "10.0.0.8")
		limiter.Check(ctx, key, 5, time.Minute)

		store.mu.Lock()
		c := store.counters[key]
		c.ResetAt = time.Now().Add(-time.Second)
		store.counters[key] = c
		store.mu.Unlock()

		store.ResetErr = storeErr
		res := limiter.Check(ctx, key, 5, time.Minute)
		assert.True(t, res.Allowed)
	})
}

func TestRetryAfter_NeverBelowOneSecond(t *testing.T) {
	now := time.Now()
	res := Result{Allowed: false, ResetAt: now.Add(100 * time.Millisecond)}
	assert.Equal(t, 1, res.RetryAfter(now))

	res = Result{Allowed: false, ResetAt: now.Add(-time.Second)}
	assert.Equal(t, 1, res.RetryAfter(now))

	res = Result{Allowed: false, ResetAt: now.Add(42 * time.Second)}
	assert.Equal(t, 42, res.RetryAfter(now))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "login:10.0.0.1", Key("login", "10.0.0.1"))
}
