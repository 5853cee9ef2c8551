package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter allows at most limit hits per window and key. Redis uses a
// fixed window counter; the in-memory fallback a sliding window.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a hit and reports whether it is within the limit. When it is
// not, the second value is how long until a retry may succeed.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	if rl.client != nil {
		return rl.allowRedis(ctx, key)
	}
	return rl.allowLocal(key)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (bool, time.Duration) {
	key = "ratelimit:" + key
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "error", err)
		return true, 0
	}
	if incr.Val() > int64(rl.limit) {
		return false, ttl.Val()
	}
	return true, 0
}

func (rl *RateLimiter) allowLocal(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	kept := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= rl.limit {
		rl.hits[key] = kept
		return false, kept[0].Add(rl.window).Sub(now)
	}
	rl.hits[key] = append(kept, now)
	return true, 0
}
