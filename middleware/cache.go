package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware sets the Cache-Control header on every response of
// the group, e.g. "no-store" for per-user API data.
func CacheControlMiddleware(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
