package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PurchaseCache implements ports.IdempotencyCache for committed purchase replays.
type PurchaseCache struct {
	client goredis.Cmdable
	prefix string
}

// NewPurchaseCache creates a new Redis-backed replay cache.
func NewPurchaseCache(client goredis.Cmdable) *PurchaseCache {
	return &PurchaseCache{
		client: client,
		prefix: "presale:",
	}
}

// Get retrieves a cached purchase. Returns nil, nil if the key does not exist.
func (c *PurchaseCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis replay get: %w", err)
	}
	return val, nil
}

// Set stores a purchase with TTL.
func (c *PurchaseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis replay set: %w", err)
	}
	return nil
}
