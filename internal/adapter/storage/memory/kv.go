package memory

import (
	"context"
	"sync"
	"time"
)

// KV is a TTL key-value store standing in for Redis. It implements
// ports.IdempotencyCache and ports.ChallengeStore.
type KV struct {
	mu      sync.Mutex
	entries map[string]kvEntry
	now     func() time.Time
}

type kvEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewKV creates an empty KV using the wall clock.
func NewKV() *KV {
	return &KV{entries: make(map[string]kvEntry), now: time.Now}
}

// Get returns the value for key, or nil if absent or expired.
func (k *KV) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.live(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value under key for ttl.
func (k *KV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[key] = kvEntry{value: append([]byte(nil), value...), expiresAt: k.now().Add(ttl)}
	return nil
}

const challengePrefix = "challenge:"

// Put stores the login nonce for wallet.
func (k *KV) Put(ctx context.Context, wallet, nonce string, ttl time.Duration) error {
	return k.Set(ctx, challengePrefix+wallet, []byte(nonce), ttl)
}

// Take returns and deletes the login nonce for wallet.
func (k *KV) Take(_ context.Context, wallet string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.live(challengePrefix + wallet)
	if !ok {
		return "", nil
	}
	delete(k.entries, challengePrefix+wallet)
	return string(e.value), nil
}

// live must be called with k.mu held; it drops expired entries.
func (k *KV) live(key string) (kvEntry, bool) {
	e, ok := k.entries[key]
	if !ok {
		return kvEntry{}, false
	}
	if !k.now().Before(e.expiresAt) {
		delete(k.entries, key)
		return kvEntry{}, false
	}
	return e, true
}
