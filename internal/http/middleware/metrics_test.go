package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/haiku/random/:theme", func(c *gin.Context) { c.String(http.StatusOK, c.Param("theme")) })
	r.POST("/haiku/generate/:theme", func(c *gin.Context) {
		if c.GetHeader(HeaderIdempotencyKey) == "seen" {
			c.Header(HeaderIdempotencyReplayed, "true")
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusCreated)
	})
	return r
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := metricsRouter()
	const route = "/haiku/random/:theme"

	base := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", route, "200"))
	for _, theme := range []string{"ocean", "rain", "snow"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/haiku/random/"+theme, nil))
	}

	assert.Equal(t, base+3, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", route, "200")))
	assert.Zero(t, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/haiku/random/ocean", "200")),
		"themes must not become series")
	assert.Zero(t, testutil.ToFloat64(requestsInFlight))
}

func TestMetrics_UnmatchedPathsShareOneSeries(t *testing.T) {
	r := metricsRouter()

	base := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	for _, p := range []string{"/wp-admin.php", "/haiku", "/.env"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, p)
	}

	assert.Equal(t, base+3, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
}

func TestMetrics_CountsOnlyReplayedGenerations(t *testing.T) {
	r := metricsRouter()
	const route = "/haiku/generate/:theme"

	baseReplays := testutil.ToFloat64(idempotentReplays.WithLabelValues(route))
	baseCreated := testutil.ToFloat64(requestsTotal.WithLabelValues("POST", route, "201"))

	for _, key := range []string{"", "fresh", "seen", "seen"} {
		req := httptest.NewRequest(http.MethodPost, "/haiku/generate/tide", nil)
		if key != "" {
			req.Header.Set(HeaderIdempotencyKey, key)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, baseReplays+2, testutil.ToFloat64(idempotentReplays.WithLabelValues(route)))
	assert.Equal(t, baseCreated+2, testutil.ToFloat64(requestsTotal.WithLabelValues("POST", route, "201")))
}
