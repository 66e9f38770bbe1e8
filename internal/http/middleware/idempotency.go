// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for the generate endpoints. It
// validates an Idempotency-Key request header, looks up a previously stored
// result for (scope, key), and annotates the Gin context so the handler can
// replay the stored haiku instead of generating a new one:
//   - GetIdempotencyKey returns the validated key
//   - IdempotencyScope returns the scope the key is bound to
//   - ReplayID returns the stored haiku id when a replay was detected
//
// Persistence stays behind the IdempotencyLookup function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the canonical request header that clients use to
// convey an idempotency key for unsafe operations (e.g., POST).
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed marks responses served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // uint: stored haiku id
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by IdempotencyValidator. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ReplayID returns the haiku id recorded for this request's key, if any.
func ReplayID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return 0, false
	}
	id, _ := v.(uint)
	return id, id != 0
}

// IdempotencyScope is the namespace a key is bound to: the request path.
// POST and PUT on the same path share a scope; two themes never do.
func IdempotencyScope(c *gin.Context) string {
	if c.Request == nil || c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Path
}

// IdempotencyOptions configures header validation behavior for
// IdempotencyValidator. TTL enforcement belongs to the lookup function.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 128, the
	// width of the stored key column.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the haiku id stored for (scope, key) when a
// still-valid record exists at now. Errors are treated as misses.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (haikuID uint, found bool, err error)

// IdempotencyValidator validates the Idempotency-Key header on unsafe
// methods, stashes it in the Gin context, and consults lookup for a stored
// result.
//
// Behavior:
//   - Safe methods (GET, HEAD, OPTIONS) and requests without the header pass
//     through untouched.
//   - A malformed key is rejected with 400.
//   - On a lookup hit the stored haiku id is available through ReplayID.
//
// The middleware never writes the replayed payload itself.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 128
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": requestIDOf(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			id, found, err := lookup(c.Request.Context(), IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found && id != 0 {
				c.Set(ctxKeyIdemReplay, id)
			}
		}

		c.Next()
	}
}
