package secsheets

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTimeLimiter rigs a limiter with a synthetic clock: sleep advances
// the clock instead of blocking, so window behavior is deterministic.
func fakeTimeLimiter(maxCalls int, window time.Duration) (*RateLimiter, *time.Time, *int) {
	now := time.Unix(0, 0)
	sleeps := 0

	rl := NewRateLimiter(maxCalls, window)
	rl.now = func() time.Time { return now }
	rl.sleep = func(d time.Duration) {
		sleeps++
		now = now.Add(d)
	}
	rl.windowStart = now
	return rl, &now, &sleeps
}

func TestRateLimiterAllowsUpToMaxCalls(t *testing.T) {
	rl, _, sleeps := fakeTimeLimiter(3, time.Second)

	rl.Acquire()
	rl.Acquire()
	rl.Acquire()

	if *sleeps != 0 {
		t.Errorf("expected no waiting within quota, slept %d times", *sleeps)
	}
}

func TestRateLimiterBurstBlocksUntilWindowReset(t *testing.T) {
	rl, now, sleeps := fakeTimeLimiter(2, time.Second)
	start := *now

	rl.Acquire()
	rl.Acquire()

	// Third call in the same instant must wait out the window.
	rl.Acquire()

	if *sleeps == 0 {
		t.Fatal("expected the over-quota call to wait")
	}
	if elapsed := now.Sub(start); elapsed <= time.Second {
		t.Errorf("over-quota call returned after %v, before the window expired", elapsed)
	}
}

func TestRateLimiterWindowResetsLazily(t *testing.T) {
	rl, now, sleeps := fakeTimeLimiter(1, time.Second)

	rl.Acquire()

	// Jump past the window; the next call should pass without waiting.
	*now = now.Add(1500 * time.Millisecond)
	rl.Acquire()

	assert.Equal(t, 0, *sleeps)
	assert.Equal(t, 1, rl.calls, "counter should restart with the new window")
}

func TestRateLimiterNeverExceedsQuotaWithinWindow(t *testing.T) {
	rl, now, _ := fakeTimeLimiter(5, time.Second)
	windowStart := *now

	// Track how many acquisitions complete inside the first window.
	completedInWindow := 0
	for i := 0; i < 8; i++ {
		rl.Acquire()
		if now.Sub(windowStart) <= time.Second {
			completedInWindow++
		}
	}

	if completedInWindow > 5 {
		t.Errorf("%d acquisitions completed within the window, want at most 5", completedInWindow)
	}
}

func TestRateLimiterFloorsInvalidConfig(t *testing.T) {
	rl := NewRateLimiter(0, -time.Second)
	assert.Equal(t, 1, rl.maxCalls)
	assert.Equal(t, time.Second, rl.window)
}

func TestRateLimiterConcurrentCallers(t *testing.T) {
	// Real clock, generous quota: verifies mutual exclusion under the
	// race detector rather than timing behavior.
	rl := NewRateLimiter(100, 50*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.Acquire()
		}()
	}
	wg.Wait()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.calls > 100 {
		t.Errorf("counter overran quota: %d", rl.calls)
	}
}
