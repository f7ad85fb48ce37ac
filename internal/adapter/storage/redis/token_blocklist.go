package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenBlocklist implements ports.TokenBlocklist. A revoked token id is kept
// only until the token would have expired anyway.
type TokenBlocklist struct {
	client goredis.UniversalClient
	prefix string
}

// NewTokenBlocklist creates a new Redis-backed token blocklist.
func NewTokenBlocklist(client goredis.UniversalClient) *TokenBlocklist {
	return &TokenBlocklist{
		client: client,
		prefix: "revoked:",
	}
}

// Revoke marks tokenID as revoked for ttl.
func (b *TokenBlocklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (b *TokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token: %w", err)
	}
	return n > 0, nil
}
