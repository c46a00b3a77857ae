package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
)

// unmatchedPath labels requests that hit no registered route. Using a fixed
// label keeps arbitrary client paths out of the metric cardinality.
const unmatchedPath = "unmatched"

// Metrics returns middleware that records per-request counters, durations
// and an in-flight gauge, labeled by method and route template.
func Metrics(metrics *prometheus.EngineMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		metrics.HTTPActiveRequests.WithLabelValues(method, path).Inc()
		start := time.Now()

		c.Next()

		metrics.HTTPActiveRequests.WithLabelValues(method, path).Dec()
		metrics.RecordHTTPRequest(method, path, c.Writer.Status(), time.Since(start))
	}
}
