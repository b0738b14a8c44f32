// Package stats provides the small timing and aggregation primitives used
// to drive periodic work (stats refresh, panel updates) without locking the
// simulation step to wall-clock time.
package stats

import "time"

// RateLimiter gates a callback to at most once per MinInterval.
type RateLimiter struct {
	minInterval time.Duration
	last        time.Time
	hasRun      bool
}

// NewRateLimiter returns a RateLimiter that allows its first Try
// immediately and subsequent ones no more often than minInterval.
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{minInterval: minInterval}
}

// Try invokes f and returns true if at least MinInterval has elapsed since
// the last successful call (or this is the first call); otherwise it is a
// no-op and returns false.
func (r *RateLimiter) Try(now time.Time, f func()) bool {
	if r.hasRun && now.Sub(r.last) < r.minInterval {
		return false
	}
	r.hasRun = true
	r.last = now
	f()
	return true
}
