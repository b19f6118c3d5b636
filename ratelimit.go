package secsheets

import (
	"sync"
	"time"
)

// pollInterval is how long Acquire sleeps between capacity checks once
// the current window is exhausted.
const pollInterval = 100 * time.Millisecond

// RateLimiter enforces a fixed-window call quota: at most maxCalls
// acquisitions per window. Acquire blocks until a slot is free and never
// rejects. The window resets lazily on the first check after expiry, not
// via a background timer.
//
// One limiter per process models the SEC's global quota. All fetching
// components must share the same instance; the limiter is safe for
// concurrent callers.
type RateLimiter struct {
	maxCalls int
	window   time.Duration

	mu          sync.Mutex
	calls       int
	windowStart time.Time

	// Replaceable in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter allowing maxCalls acquisitions per
// window. A maxCalls below 1 is raised to 1 and a non-positive window
// defaults to one second, so a misconfigured limiter delays rather than
// deadlocks.
func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	if maxCalls < 1 {
		maxCalls = 1
	}
	if window <= 0 {
		window = time.Second
	}

	rl := &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		sleep:    time.Sleep,
	}
	rl.windowStart = rl.now()
	return rl
}

// Acquire blocks the caller until a slot is available, then consumes it.
// Slots are never returned early; a full window simply delays the caller
// until the window rolls over.
func (rl *RateLimiter) Acquire() {
	for {
		rl.mu.Lock()
		now := rl.now()
		if now.Sub(rl.windowStart) > rl.window {
			rl.calls = 0
			rl.windowStart = now
		}
		if rl.calls < rl.maxCalls {
			rl.calls++
			rl.mu.Unlock()
			return
		}
		rl.mu.Unlock()

		// Sleep outside the lock so other callers can observe the
		// window rolling over.
		rl.sleep(pollInterval)
	}
}
