package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Haleralex/jobportal/internal/pkg/metrics"
)

// unmatchedRoute labels requests no route handled (404 and preflight).
const unmatchedRoute = "unknown"

var routeLabels = []string{"method", "path"}

func httpOpts(name, help string) prometheus.Opts {
	return prometheus.Opts{Namespace: metrics.Namespace, Subsystem: "http", Name: name, Help: help}
}

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts(httpOpts("requests_total", "HTTP requests by route template and status")),
		append(routeLabels, "status"),
	)

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.ExponentialBucketsRange(0.001, 10, 12),
	}, routeLabels)

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response body size",
		Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
	}, routeLabels)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts(httpOpts("requests_in_flight", "HTTP requests being served")),
	)

	httpRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts(httpOpts("rate_limited_total", "Requests rejected by a rate limiter")),
		[]string{"limiter"},
	)
)

// Metrics records per-route request metrics. Routes are labelled by their
// template (c.FullPath), which is only known after the handler ran.
// Scrapes of /metrics are not counted.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": route}

		httpRequestDuration.With(labels).Observe(elapsed.Seconds())
		httpResponseSize.With(labels).Observe(float64(max(c.Writer.Size(), 0)))

		labels["status"] = strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.With(labels).Inc()
	}
}
