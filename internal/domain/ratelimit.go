package domain

import "time"

// RateCounter is one fixed-window counter, keyed by "{purpose}:{subject}".
// A counter is either fresh (ResetAt in the future, within the configured
// window) or eligible for replacement.
type RateCounter struct {
	Key       string
	Count     int
	ResetAt   time.Time
	CreatedAt time.Time
}
