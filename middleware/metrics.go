package middleware

import (
	"strconv"
	"time"

	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count, latency and response size per
// route template so ids in paths do not explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		utils.ActiveRequests.Inc()
		defer utils.ActiveRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		utils.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		utils.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		utils.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(c.Writer.Size()))
	}
}
