package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

// Rate limit counters. Each statement here is a single atomic write so that
// concurrent logins under the same key cannot both observe the last free
// slot; there is never a separate read followed by a separate write.

// GetOrCreate inserts a fresh counter with count=1 or, on conflict, returns
// the existing row untouched.
func (s *Storage) GetOrCreate(ctx context.Context, key string, resetAt time.Time) (domain.RateCounter, bool, error) {
	var counter domain.RateCounter
	var inserted bool
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO rate_limits(key, count, reset_at)
        VALUES($1, 1, $2)
        ON CONFLICT (key) DO UPDATE SET count = rate_limits.count
        RETURNING key, count, reset_at, created_at, (xmax = 0) AS inserted`,
		key, resetAt,
	).Scan(&counter.Key, &counter.Count, &counter.ResetAt, &counter.CreatedAt, &inserted)
	if err != nil {
		return domain.RateCounter{}, false, fmt.Errorf("failed to get or create counter: %w", err)
	}
	return counter, inserted, nil
}

// IncrementIfBelow bumps the counter only while the window is open and the
// budget has room. ok=false means the (max+1)-th attempt was rejected.
func (s *Storage) IncrementIfBelow(ctx context.Context, key string, max int) (int, bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
        UPDATE rate_limits SET count = count + 1
        WHERE key = $1 AND count < $2 AND reset_at > now()
        RETURNING count`,
		key, max,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to increment counter: %w", err)
	}
	return count, true, nil
}

// Reset replaces an elapsed or stale counter with a fresh one-attempt window.
func (s *Storage) Reset(ctx context.Context, key string, resetAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO rate_limits(key, count, reset_at, created_at)
        VALUES($1, 1, $2, now())
        ON CONFLICT (key) DO UPDATE SET count = 1, reset_at = $2, created_at = now()`,
		key, resetAt)
	if err != nil {
		return fmt.Errorf("failed to reset counter: %w", err)
	}
	return nil
}
