package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether a keyed request may proceed.
// *services.RateLimiter satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

// RateLimit limits each authenticated user per scope. It must run after
// AuthMiddleware.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + UserID(c)
		ok, retry := limiter.Allow(c.Request.Context(), key)
		if ok {
			c.Next()
			return
		}
		seconds := int(math.Ceil(retry.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		utils.TrackError("rate_limit", scope)
		c.Header("Retry-After", strconv.Itoa(seconds))
		utils.TooManyRequests(c, "Too many requests, slow down", gin.H{"retry_after_seconds": seconds})
	}
}
