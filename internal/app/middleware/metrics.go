package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tripmate/tripmate/internal/app/observability/metrics"
)

// RequestMetricsMiddleware records per-request counters and latency.
func RequestMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		)

		ctx := c.Request.Context()
		metrics.Get().HTTPRequestsTotal.Add(ctx, 1, attrs)
		metrics.Get().HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
