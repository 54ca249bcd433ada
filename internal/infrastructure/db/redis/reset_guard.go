package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTokenGuard records consumed reset-token IDs so each reset link works
// once. Keys expire together with the token they describe.
// Key format: reset:used:<jti>
type ResetTokenGuard struct {
	client *redis.Client
}

func NewResetTokenGuard(client *redis.Client) *ResetTokenGuard {
	return &ResetTokenGuard{client: client}
}

// Claim atomically marks tokenID as used. It returns false if another request
// already claimed it.
func (g *ResetTokenGuard) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	ok, err := g.client.SetNX(ctx, g.key(tokenID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim reset token: %w", err)
	}
	return ok, nil
}

func (g *ResetTokenGuard) Release(ctx context.Context, tokenID string) error {
	if err := g.client.Del(ctx, g.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("release reset token: %w", err)
	}
	return nil
}

func (g *ResetTokenGuard) key(tokenID string) string {
	return "reset:used:" + tokenID
}
