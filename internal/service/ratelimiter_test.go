package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryRateLimiter_FifthAllowedSixthRejected(t *testing.T) {
	clock := newFakeClock(t0)
	rl := NewMemoryRateLimiter(DefaultRateLimitMax, DefaultRateLimitWindow, clock)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := rl.Allow(ctx, testWallet)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d should be allowed", i)
		assert.Equal(t, 5-i, d.Remaining)
		clock.Advance(time.Minute)
	}

	d, err := rl.Allow(ctx, testWallet)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "6th call inside the window should be rejected")
	// First hit at t0, now t0+5m: window frees up at t0+15m.
	assert.Equal(t, 10*time.Minute, d.RetryAfter)
}

func TestMemoryRateLimiter_WindowSlides(t *testing.T) {
	clock := newFakeClock(t0)
	rl := NewMemoryRateLimiter(5, 15*time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, _ := rl.Allow(ctx, testWallet)
		require.True(t, d.Allowed)
		clock.Advance(time.Minute)
	}
	d, _ := rl.Allow(ctx, testWallet)
	require.False(t, d.Allowed)

	// Slide just past the first call (t0 + 15m).
	clock.Set(t0.Add(15 * time.Minute))
	d, _ = rl.Allow(ctx, testWallet)
	assert.True(t, d.Allowed, "call after the window slides past the 1st call should be accepted")

	d, _ = rl.Allow(ctx, testWallet)
	assert.False(t, d.Allowed, "only one slot was freed")
}

func TestMemoryRateLimiter_RejectedCallsDoNotConsume(t *testing.T) {
	clock := newFakeClock(t0)
	rl := NewMemoryRateLimiter(1, time.Minute, clock)
	ctx := context.Background()

	d, _ := rl.Allow(ctx, "a")
	require.True(t, d.Allowed)
	for i := 0; i < 3; i++ {
		d, _ = rl.Allow(ctx, "a")
		require.False(t, d.Allowed)
	}

	clock.Advance(time.Minute)
	d, _ = rl.Allow(ctx, "a")
	assert.True(t, d.Allowed)
}

func TestMemoryRateLimiter_KeysIndependent(t *testing.T) {
	rl := NewMemoryRateLimiter(1, time.Minute, newFakeClock(t0))
	ctx := context.Background()

	d, _ := rl.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = rl.Allow(ctx, "b")
	assert.True(t, d.Allowed)
	d, _ = rl.Allow(ctx, "a")
	assert.False(t, d.Allowed)
}

func TestMemoryRateLimiter_ConcurrentSameKey(t *testing.T) {
	rl := NewMemoryRateLimiter(5, time.Minute, newFakeClock(t0))
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := rl.Allow(ctx, testWallet)
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func TestMemoryRateLimiter_Sweep(t *testing.T) {
	clock := newFakeClock(t0)
	rl := NewMemoryRateLimiter(5, time.Minute, clock)
	ctx := context.Background()

	_, _ = rl.Allow(ctx, "a")
	clock.Advance(30 * time.Second)
	_, _ = rl.Allow(ctx, "b")

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, rl.Sweep(), "only a's window has expired")

	d, _ := rl.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}
