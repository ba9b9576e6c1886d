package service

import (
	"context"
	"sync"
	"time"

	"presale-backend/internal/core/ports"
)

// Default sliding-window policy for wallet-keyed requests.
const (
	DefaultRateLimitMax    = 5
	DefaultRateLimitWindow = 15 * time.Minute
)

// MemoryRateLimiter is a process-local sliding-window limiter.
// Each key has its own window guarded by its own mutex; there is no
// lock shared across keys on the hot path.
type MemoryRateLimiter struct {
	max     int
	window  time.Duration
	clock   ports.Clock
	windows sync.Map // key -> *slidingWindow
}

type slidingWindow struct {
	mu      sync.Mutex
	hits    []time.Time
	evicted bool
}

// NewMemoryRateLimiter creates a limiter allowing max requests per window.
func NewMemoryRateLimiter(max int, window time.Duration, clock ports.Clock) *MemoryRateLimiter {
	return &MemoryRateLimiter{max: max, window: window, clock: clock}
}

// Allow records a request for key if the window has room.
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	for {
		v, _ := l.windows.LoadOrStore(key, &slidingWindow{})
		w := v.(*slidingWindow)

		w.mu.Lock()
		if w.evicted {
			// Lost a race with Sweep; fetch the replacement window.
			w.mu.Unlock()
			continue
		}
		decision := l.admit(w, l.clock.Now())
		w.mu.Unlock()
		return decision, nil
	}
}

// admit must be called with w.mu held.
func (l *MemoryRateLimiter) admit(w *slidingWindow, now time.Time) ports.RateDecision {
	w.hits = pruneBefore(w.hits, now, l.window)

	if len(w.hits) >= l.max {
		return ports.RateDecision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: w.hits[0].Add(l.window).Sub(now),
		}
	}

	w.hits = append(w.hits, now)
	return ports.RateDecision{Allowed: true, Remaining: l.max - len(w.hits)}
}

// Sweep drops windows with no hits left inside the window.
func (l *MemoryRateLimiter) Sweep() int {
	now := l.clock.Now()
	removed := 0
	l.windows.Range(func(k, v any) bool {
		w := v.(*slidingWindow)
		w.mu.Lock()
		w.hits = pruneBefore(w.hits, now, l.window)
		if len(w.hits) == 0 {
			w.evicted = true
			l.windows.Delete(k)
			removed++
		}
		w.mu.Unlock()
		return true
	})
	return removed
}

// pruneBefore keeps the hits younger than window relative to now.
func pruneBefore(hits []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(hits) && now.Sub(hits[i]) >= window {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}
