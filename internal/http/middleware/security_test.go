package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const exposeHdr = "Access-Control-Expose-Headers"

var haikuExpose = []string{"ETag", HeaderIdempotencyReplayed}

// exposeTokens lower-cases and counts the entries of the expose list.
func exposeTokens(h http.Header) map[string]int {
	out := map[string]int{}
	for _, p := range strings.Split(h.Get(exposeHdr), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out[strings.ToLower(p)]++
		}
	}
	return out
}

func haikuRouter(pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(pre...)
	r.Use(SecurityHeaders(SecurityOptions{EnablePolicy: true, ExposeHeaders: haikuExpose}))
	r.GET("/haiku", func(c *gin.Context) {
		if c.GetHeader("If-None-Match") == `W/"haikus:2:2"` {
			c.Header("ETag", `W/"haikus:2:2"`)
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", `W/"haikus:2:2"`)
		c.Status(http.StatusOK)
	})
	r.POST("/haiku/generate/:theme", func(c *gin.Context) {
		if c.GetHeader(HeaderIdempotencyKey) != "" {
			c.Header(HeaderIdempotencyReplayed, "true")
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusCreated)
	})
	return r
}

func TestSecurityHeaders_ExposesOnlyHeadersTheResponseCarries(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		header map[string]string
		want   string
	}{
		{"fresh generation", http.MethodPost, "/haiku/generate/ocean", nil, "X-Request-ID"},
		{"replayed generation", http.MethodPost, "/haiku/generate/ocean",
			map[string]string{HeaderIdempotencyKey: "k"}, "X-Request-ID, Idempotency-Replayed"},
		{"list", http.MethodGet, "/haiku", nil, "X-Request-ID, ETag"},
		{"list not modified", http.MethodGet, "/haiku",
			map[string]string{"If-None-Match": `W/"haikus:2:2"`}, "X-Request-ID, ETag"},
	}
	r := haikuRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Header().Get(exposeHdr))
		})
	}
}

func TestSecurityHeaders_MergesWithCORSWithoutDuplicates(t *testing.T) {
	r := haikuRouter(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST"},
		ExposeHeaders:   []string{"X-Request-ID", "ETag", HeaderIdempotencyReplayed},
	}))

	req := httptest.NewRequest(http.MethodPost, "/haiku/generate/ocean", nil)
	req.Header.Set("Origin", "https://poems.example")
	req.Header.Set(HeaderIdempotencyKey, "k")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, map[string]int{
		"x-request-id":         1,
		"etag":                 1,
		"idempotency-replayed": 1,
	}, exposeTokens(w.Header()))
}

func TestSecurityHeaders_KeepsForeignExposeEntries(t *testing.T) {
	r := haikuRouter(func(c *gin.Context) {
		c.Header(exposeHdr, "X-Trace")
		c.Next()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/haiku", nil))

	assert.Equal(t, "X-Trace, X-Request-ID, ETag", w.Header().Get(exposeHdr))
}

func TestSecurityHeaders_HardeningAndHSTS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour, NoStore: true}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	plain := httptest.NewRecorder()
	r.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "nosniff", plain.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", plain.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", plain.Header().Get("Cache-Control"))
	assert.Empty(t, plain.Header().Get("Permissions-Policy"))
	assert.Empty(t, plain.Header().Get("Strict-Transport-Security"), "HSTS over plain HTTP")

	for name, req := range map[string]*http.Request{
		"tls":   httptest.NewRequest(http.MethodGet, "/ping", nil),
		"proxy": httptest.NewRequest(http.MethodGet, "/ping", nil),
	} {
		if name == "tls" {
			req.TLS = &tls.ConnectionState{}
		} else {
			req.Header.Set("X-Forwarded-Proto", "HTTPS")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "max-age=86400; includeSubDomains; preload",
			w.Header().Get("Strict-Transport-Security"), name)
	}
}

func TestContainsToken(t *testing.T) {
	assert.True(t, containsToken("Etag,x-request-id", "X-Request-ID"))
	assert.False(t, containsToken("X-Request-ID-Extra", "X-Request-ID"))
}
