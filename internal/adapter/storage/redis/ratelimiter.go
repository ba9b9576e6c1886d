package redis

import (
	"context"
	"fmt"
	"time"

	"presale-backend/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// slidingWindowScript keeps one sorted set of hit timestamps (ms) per key.
// It prunes hits at or older than now-window, then admits the request if
// fewer than limit remain. Returns {allowed, remaining, retryAfterMs}.
var slidingWindowScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, 0, tonumber(oldest[2]) + window - now}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1, 0}
`)

// RateLimiter implements ports.RateLimiter as a Redis sliding window, so the
// limit holds across API replicas.
type RateLimiter struct {
	client goredis.Scripter
	prefix string
	max    int
	window time.Duration
	clock  ports.Clock
}

// NewRateLimiter creates a limiter allowing max requests per window per key.
func NewRateLimiter(client goredis.Scripter, max int, window time.Duration, clock ports.Clock) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: "ratelimit:",
		max:    max,
		window: window,
		clock:  clock,
	}
}

// Allow records a request for key if the window has room.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	now := l.clock.Now().UnixMilli()
	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.prefix + key},
		now, l.window.Milliseconds(), l.max, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 3 {
		return ports.RateDecision{}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}

	return ports.RateDecision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
