// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers and idempotency.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-haiku-backend/docs" // swagger spec registration
	"github.com/tbourn/go-haiku-backend/internal/config"
	"github.com/tbourn/go-haiku-backend/internal/geo"
	"github.com/tbourn/go-haiku-backend/internal/http/handlers"
	"github.com/tbourn/go-haiku-backend/internal/http/middleware"
	"github.com/tbourn/go-haiku-backend/internal/repo"
	"github.com/tbourn/go-haiku-backend/internal/services"
)

// Deps are the process-wide collaborators the routes are built on.
type Deps struct {
	DB     *gorm.DB
	Poems  services.PoemGenerator
	Lookup geo.Lookuper
}

// idemStore adapts the idempotency repository functions to the handler and
// middleware contracts.
type idemStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// Remember proxies repo.CreateIdempotency. A concurrent request that stored
// the same key first wins.
func (s idemStore) Remember(ctx context.Context, scope, key string, haikuID uint) error {
	_, err := repo.CreateIdempotency(ctx, s.db, scope, key, haikuID, http.StatusCreated, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// Lookup proxies repo.GetIdempotency.
func (s idemStore) Lookup(ctx context.Context, scope, key string, now time.Time) (uint, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, scope, key, now)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return rec.HaikuID, true, nil
}

// corsAllowHeaders are the request headers browsers may send cross-origin.
var corsAllowHeaders = []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}

// corsExposeHeaders are the response headers browsers may read.
var corsExposeHeaders = []string{"X-Request-ID", "ETag", middleware.HeaderIdempotencyReplayed, "Content-Length"}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing, request-scoped logger
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip
//  8. Idempotency validator
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	idem := idemStore{db: deps.DB, ttl: cfg.IdempotencyTTL}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idem.Lookup))

	// CORS posture: allow all when no origins are configured.
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     corsAllowHeaders,
		ExposeHeaders:    corsExposeHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		EnablePolicy:  true,
		ExposeHeaders: []string{"ETag", middleware.HeaderIdempotencyReplayed},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ping", handlers.Ping)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/providers
	logSvc := services.NewLoggingService(deps.DB)
	locSvc := services.NewLocationService(deps.DB, deps.Lookup, logSvc, cfg.Geo.FallbackIP)
	haikuSvc := services.NewHaikuService(deps.DB, deps.Poems, locSvc, logSvc)
	haikuSvc.BestEffortCountry = cfg.Geo.BestEffort

	h := handlers.New(haikuSvc, logSvc, idem)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		if cfg.APIBasePath != "" && cfg.APIBasePath != "/" {
			api.GET("/ping", handlers.Ping)
		}

		// Generation
		for _, method := range []string{http.MethodPost, http.MethodPut} {
			api.Handle(method, "/haiku/generate", h.GenerateRandomHaiku)
			api.Handle(method, "/haiku/generate/random", h.GenerateRandomHaiku)
			api.Handle(method, "/haiku/generate/:theme", h.GenerateHaiku)
		}

		// Reads
		api.GET("/haiku", h.ListHaikus)
		api.GET("/haiku/random", h.GetRandomHaiku)
		api.GET("/haiku/random/:theme", h.GetRandomHaikuByTheme)
		api.GET("/haiku/:id", h.GetHaiku)

		// Failure log
		api.GET("/logging", h.ListLogEntries)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
