package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ChallengeStore implements ports.ChallengeStore. Take uses GETDEL so a
// nonce can be redeemed once even with concurrent logins.
type ChallengeStore struct {
	client goredis.Cmdable
	prefix string
}

// NewChallengeStore creates a new Redis-backed challenge store.
func NewChallengeStore(client goredis.Cmdable) *ChallengeStore {
	return &ChallengeStore{
		client: client,
		prefix: "challenge:",
	}
}

// Put stores the nonce for wallet, replacing any previous one.
func (s *ChallengeStore) Put(ctx context.Context, wallet, nonce string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+wallet, nonce, ttl).Err(); err != nil {
		return fmt.Errorf("redis challenge put: %w", err)
	}
	return nil
}

// Take returns and deletes the nonce; "" if none.
func (s *ChallengeStore) Take(ctx context.Context, wallet string) (string, error) {
	nonce, err := s.client.GetDel(ctx, s.prefix+wallet).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis challenge take: %w", err)
	}
	return nonce, nil
}
