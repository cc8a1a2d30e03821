package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, latency and in-flight gauges by route pattern.
// Requests for any of skipPaths, typically probes and the scrape endpoint, are not recorded.
func MetricsMiddleware(m *metrics.Metrics, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		start := time.Now()
		defer func() {
			m.DecrementHTTPRequestsInFlight()
			route := c.FullPath()
			if route == "" {
				route = unmatchedRoute
			}
			m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		}()

		c.Next()
	}
}

// MetricsEndpoint serves the Prometheus registry owned by m
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	return gin.WrapH(m.Handler())
}
