package middleware

import (
	"strconv"

	"dormhub.io/repairdesk/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics counts every request by method, route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
