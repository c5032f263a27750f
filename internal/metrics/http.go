package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// rejectionReasons labels the responses counted by <namespace>_http_rejections_total.
var rejectionReasons = map[int]string{
	http.StatusUnauthorized:    "unauthorized",
	http.StatusForbidden:       "forbidden",
	http.StatusTooManyRequests: "rate_limited",
}

type httpMetrics struct {
	requestCounter   metric.Int64Counter
	rejectionCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("HTTP requests by method, route and status code"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rejectionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_rejections_total", namespace),
		metric.WithDescription("HTTP requests refused by authentication, bans, challenges or rate limiting"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestCounter:   requestCounter,
		rejectionCounter: rejectionCounter,
		durationHisto:    durationHisto,
	}, nil
}

// HTTPMetricsMiddleware records every request under its route pattern, never the raw
// path, so ids in /v1/connections/:id do not multiply series. 401, 403 and 429
// responses also increment the rejection counter. If the instruments cannot be
// created the middleware is a pass-through.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	metrics, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		route := sanitizePath(c.FullPath())

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(status)),
		)
		metrics.requestCounter.Add(ctx, 1, attrs)
		metrics.durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)

		if reason, ok := rejectionReasons[status]; ok {
			metrics.rejectionCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("path", route),
				attribute.String("reason", reason),
			))
		}
	}
}

// sanitizePath returns the matched route pattern, or "unknown" for unmatched requests.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
