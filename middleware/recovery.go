package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"studyflow/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware turns a panic into a 500 response, logs it with the
// request id and reports it to Sentry when configured.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			utils.TrackError("panic", c.FullPath())
			slog.Error("panic recovered",
				"error", fmt.Sprint(rec),
				"request_id", c.GetString(ContextRequestID),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			if hub := sentry.CurrentHub(); hub.Client() != nil {
				hub.Clone().Recover(rec)
			}
			utils.InternalError(c, "Internal server error")
		}()
		c.Next()
	}
}
