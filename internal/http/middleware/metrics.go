package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/observability"
)

// Metrics records request count and latency per route template, so
// /api/v1/visits/:id is one series regardless of the id.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
