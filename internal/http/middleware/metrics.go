package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels every request that found no route, so 404 scans
// share one series.
const unmatchedRoute = "unmatched"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haiku",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// Generation waits on an LLM round trip, so the buckets reach 30s.
	requestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "haiku",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"method", "route"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "haiku",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		},
	)

	idempotentReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haiku",
			Subsystem: "http",
			Name:      "idempotent_replays_total",
			Help:      "Generate responses replayed for a repeated Idempotency-Key.",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestSeconds, requestsInFlight, idempotentReplays)
}

// Metrics instruments every request. Routes are labelled by their pattern
// (e.g. /api/v1/haiku/generate/:theme), never by the raw path, so themes and
// ids do not leak into series names. A response carrying
// Idempotency-Replayed: true also counts as a replay.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		observe(c, time.Since(start))
	}
}

func observe(c *gin.Context, took time.Duration) {
	route := routeLabel(c)
	method := c.Request.Method

	requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	requestSeconds.WithLabelValues(method, route).Observe(took.Seconds())
	if replayed(c) {
		idempotentReplays.WithLabelValues(route).Inc()
	}
}

// routeLabel returns the matched route pattern or "unmatched".
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}

func replayed(c *gin.Context) bool {
	return c.Writer.Header().Get(HeaderIdempotencyReplayed) == "true"
}
