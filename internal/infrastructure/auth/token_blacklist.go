package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates JWT tokens before their natural expiry
// (logout). Entries live only as long as the token would have.
type TokenBlacklist interface {
	// AddToBlacklist adds a token's JTI (JWT ID) to the blacklist.
	// ttl should be the remaining time until token expiration.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks if a token's JTI is in the blacklist
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a token blacklist on an existing Redis
// client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "token:blacklist:",
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

// AddToBlacklist adds a token's JTI to the blacklist
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to revoke
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is a process-local blacklist for tests and
// single-instance development setups
type InMemoryTokenBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		entries: make(map[string]time.Time),
	}
}

// AddToBlacklist records the JTI until its expiry
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted reports whether the JTI is revoked and not yet expired
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	expiry, ok := b.entries[jti]
	b.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		b.mu.Lock()
		delete(b.entries, jti)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
