package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token ids (jti) until they would have
// expired anyway. Without Redis it keeps them in process memory.
type TokenBlacklist struct {
	client *redis.Client

	mu    sync.Mutex
	local map[string]time.Time
	now   func() time.Time
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		client: client,
		local:  make(map[string]time.Time),
		now:    time.Now,
	}
}

func blacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}

func (tb *TokenBlacklist) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(tb.now())
	if ttl <= 0 {
		return nil
	}

	if tb.client != nil {
		return tb.client.Set(ctx, blacklistKey(claims.ID), string(claims.Type), ttl).Err()
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.local[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (tb *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	if tb.client != nil {
		n, err := tb.client.Exists(ctx, blacklistKey(tokenID)).Result()
		if err != nil {
			slog.Warn("token blacklist lookup failed", "error", err)
			return false
		}
		return n > 0
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()
	exp, ok := tb.local[tokenID]
	if !ok {
		return false
	}
	if tb.now().After(exp) {
		delete(tb.local, tokenID)
		return false
	}
	return true
}
