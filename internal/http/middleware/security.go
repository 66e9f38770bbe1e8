// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, a hardening middleware that attaches a
// conservative set of HTTP security headers for a JSON API running behind a
// reverse proxy, and exposes the response headers browser clients of the
// haiku API need to read (request id, ETag, idempotent replay marker).
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures HTTP security headers emitted by SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS   bool          // set true only when traffic is HTTPS end-to-end
	HSTSMaxAge   time.Duration // defaults to 180 days when <= 0
	NoStore      bool          // add Cache-Control: no-store
	EnablePolicy bool          // include Permissions-Policy, etc.

	// ExposeHeaders are appended to Access-Control-Expose-Headers when the
	// response carries them. X-Request-ID is always considered.
	ExposeHeaders []string
}

// SecurityHeaders returns a Gin middleware that adds security headers to
// each response.
//
// Always set: X-Content-Type-Options, X-Frame-Options, Referrer-Policy.
// EnablePolicy adds Permissions-Policy and X-Permitted-Cross-Domain-Policies.
// NoStore adds Cache-Control/Pragma/Expires. HSTS is only sent for HTTPS
// requests (direct TLS or X-Forwarded-Proto: https).
//
// Expose headers are resolved before and after the handler runs, so headers
// set by the handler itself (ETag, Idempotency-Replayed) are covered as long
// as the body has not been flushed.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"
	expose := append([]string{requestIDHeader}, opt.ExposeHeaders...)

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		exposePresent(h, expose)
		c.Next()
		if !c.Writer.Written() {
			exposePresent(h, expose)
		}
	}
}

// exposePresent appends each of names that is set on h to
// Access-Control-Expose-Headers, without duplicates.
func exposePresent(h http.Header, names []string) {
	const hdr = "Access-Control-Expose-Headers"
	for _, name := range names {
		if h.Get(name) == "" {
			continue
		}
		cur := h.Get(hdr)
		switch {
		case cur == "":
			h.Set(hdr, name)
		case !containsToken(cur, name):
			h.Set(hdr, cur+", "+name)
		}
	}
}

// containsToken reports whether the comma-separated list has tok
// (case-insensitive).
func containsToken(list, tok string) bool {
	for _, p := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(p), tok) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the incoming request used HTTPS either directly
// (r.TLS != nil) or via a reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
