package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hostelworks/hms-api/internal/service"
)

// Metrics records duration and status per route. Unmatched routes are
// labelled by raw path so 404 traffic stays visible without exploding
// label cardinality on real routes.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
