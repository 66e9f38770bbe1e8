// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file owns the request-scoped logger. RequestID assigns the correlation
// id; the access logger then calls attachLogger, which puts a zerolog.Logger
// carrying that id, the route and the requested theme on both the Gin context
// and the request context. Handlers read it with LoggerFrom, services with
// zerolog's log.Ctx, so a failed generation logs the same request_id the
// client sees in the error envelope.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the raw query bytes written to the access log.
	maxQueryLogLength = 2048
	// maxThemeLogLength caps the theme field; themes are free text.
	maxThemeLogLength = 128
)

// RequestID reuses an inbound X-Request-ID or mints a UUIDv4, then echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// requestLogger derives the per-request logger from the global one. The
// theme is redacted like any other client text.
func requestLogger(c *gin.Context) zerolog.Logger {
	lc := log.With().
		Str("request_id", requestIDOf(c)).
		Str("method", c.Request.Method).
		Str("route", routeLabel(c))
	if theme := c.Param("theme"); theme != "" {
		lc = lc.Str("theme", redact(truncate(theme, maxThemeLogLength)))
	}
	if c.GetHeader(HeaderIdempotencyKey) != "" {
		lc = lc.Bool("idempotent", true)
	}
	return lc.Logger()
}

// attachLogger stores l in the Gin context and on the request context.
func attachLogger(c *gin.Context, l *zerolog.Logger) {
	c.Set(loggerKey, l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
}

// LoggerFrom returns the request-scoped logger, or a copy of the global one
// when no access logger ran.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// Recovery turns a panic into the standard error envelope. The stack goes to
// the request-scoped logger. A response already on the wire is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": requestIDOf(c),
				"code":       "internal_error",
				"label":      "panic recovered",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// truncate cuts s to max bytes plus an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
