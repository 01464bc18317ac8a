// Package ratelimit implements fixed-window request counting over a shared
// counter store. All state lives in the store, so every instance of the
// service enforces the same budget.
package ratelimit

import (
	"context"
	"time"

	"github.com/skyreport-dev/skyreport/internal/domain"
	"github.com/skyreport-dev/skyreport/internal/logger"
)

// storeTimeout bounds every store call; a slow store is treated the same as
// an unavailable one.
const storeTimeout = 2 * time.Second

// Store is the counter store collaborator. Implementations must make
// IncrementIfBelow an atomic increment-and-compare: two concurrent callers
// must not both succeed when one slot remains.
type Store interface {
	// GetOrCreate returns the counter for key, creating it with count=1 and
	// the given resetAt when absent. created reports whether this call made it.
	GetOrCreate(ctx context.Context, key string, resetAt time.Time) (counter domain.RateCounter, created bool, err error)
	// IncrementIfBelow bumps the counter only while count < max and the
	// window is still open. ok is false when the budget is exhausted.
	IncrementIfBelow(ctx context.Context, key string, max int) (count int, ok bool, err error)
	// Reset replaces the counter with count=1 and a fresh window.
	Reset(ctx context.Context, key string, resetAt time.Time) error
}

type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns whole seconds until the window resets, at least 1 for a
// denied result so clients never get a zero Retry-After.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

type Limiter struct {
	store Store
}

func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Key builds the store key for a purpose and subject, e.g. "login:10.0.0.1".
func Key(purpose, subject string) string {
	return purpose + ":" + subject
}

// Check consumes one attempt for key out of max per window.
//
// Failure policy is fail open: if the store errors or times out the request
// is allowed rather than blocking logins during an outage.
func (l *Limiter) Check(ctx context.Context, key string, max int, window time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	now := time.Now()
	failOpen := Result{Allowed: true, Remaining: max - 1, ResetAt: now.Add(window)}

	counter, created, err := l.store.GetOrCreate(ctx, key, now.Add(window))
	if err != nil {
		logger.Log.Error("rate limiter store unavailable, failing open", "key", key, "error", err)
		return failOpen
	}
	if created {
		return Result{Allowed: true, Remaining: max - 1, ResetAt: counter.ResetAt}
	}

	// The window elapsed, or the stored reset time exceeds what the current
	// window size could produce (a previously configured longer window must
	// not keep polluting a shortened one). Either way start over.
	if !now.Before(counter.ResetAt) || counter.ResetAt.After(now.Add(window)) {
		resetAt := now.Add(window)
		if err := l.store.Reset(ctx, key, resetAt); err != nil {
			logger.Log.Error("rate limiter store unavailable, failing open", "key", key, "error", err)
			return failOpen
		}
		return Result{Allowed: true, Remaining: max - 1, ResetAt: resetAt}
	}

	count, ok, err := l.store.IncrementIfBelow(ctx, key, max)
	if err != nil {
		logger.Log.Error("rate limiter store unavailable, failing open", "key", key, "error", err)
		return failOpen
	}
	if !ok {
		resetAt := counter.ResetAt
		if maxReset := now.Add(window); resetAt.After(maxReset) {
			resetAt = maxReset
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Remaining: remaining, ResetAt: counter.ResetAt}
}
