// Haiku HTTP handlers.
//
// This file exposes REST endpoints for haiku resources:
//   - POST|PUT /haiku/generate[/random|/{theme}]  (generate, idempotent with a key)
//   - GET      /haiku                             (list, ETag support)
//   - GET      /haiku/random[/{theme}]            (uniform random pick)
//   - GET      /haiku/{id}                        (point lookup)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/http/middleware"
	"github.com/tbourn/go-haiku-backend/internal/services"
	"github.com/tbourn/go-haiku-backend/internal/utils"
)

// maxThemeRunes bounds the theme path segment forwarded to the provider.
const maxThemeRunes = 200

//
// Service contracts (context-aware)
//

// HaikuService defines haiku generation and retrieval consumed by the
// handlers. Errors are *services.Failure values.
type HaikuService interface {
	// GenerateHaiku creates a new haiku for theme (nil = random/zen).
	GenerateHaiku(ctx context.Context, rc services.RequestContext, theme *string) (*domain.Haiku, error)
	// GetRandomHaiku returns a uniformly chosen haiku, or nil when none match.
	GetRandomHaiku(ctx context.Context, theme *string) (*domain.Haiku, error)
	// GetHaikuByID returns one haiku or a not-found failure.
	GetHaikuByID(ctx context.Context, id uint) (*domain.Haiku, error)
	// GetAllHaikus returns every haiku in id order.
	GetAllHaikus(ctx context.Context) ([]domain.Haiku, error)
}

// HaikuStats is optionally implemented by a HaikuService to enable ETags on
// the list endpoint.
type HaikuStats interface {
	Stats(ctx context.Context) (count int64, maxID uint, err error)
}

// LogService exposes the recorded failures.
type LogService interface {
	ListAll(ctx context.Context) ([]domain.LogEntry, error)
}

// IdempotencyRecorder remembers the haiku produced for an Idempotency-Key so
// that IdempotencyValidator can replay it.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, scope, key string, haikuID uint) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints over abstract service interfaces.
type Handlers struct {
	haikuSvc HaikuService
	logSvc   LogService
	idem     IdempotencyRecorder
}

// New constructs a Handlers instance. idem may be nil to disable replays.
func New(haikuSvc HaikuService, logSvc LogService, idem IdempotencyRecorder) *Handlers {
	return &Handlers{haikuSvc: haikuSvc, logSvc: logSvc, idem: idem}
}

// ginRequest adapts a Gin context to services.RequestContext.
type ginRequest struct{ c *gin.Context }

// ClientIP returns the address Gin resolved for the caller, honoring the
// engine's trusted proxy settings.
func (r ginRequest) ClientIP() (string, bool) {
	if r.c == nil || r.c.Request == nil {
		return "", false
	}
	ip := strings.TrimSpace(r.c.ClientIP())
	return ip, ip != ""
}

//
// Handlers
//

// GenerateHaiku godoc
// @ID          generateHaiku
// @Summary     Generate a haiku about a theme
// @Description Generates a 5-7-5 haiku about the theme, tags it with the caller's country and stores it.
// @Description A repeated Idempotency-Key on the same path replays the stored haiku with 200.
// @Tags        Haiku
// @Produce     json
//
// @Param       theme            path    string  true   "Theme"  example(ocean)
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
//
// @Success     201  {object}  domain.Haiku
// @Success     200  {object}  domain.Haiku           "Replayed"
// @Header      200  {string}  Idempotency-Replayed   "true when replayed"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Generation failed"
// @Router      /haiku/generate/{theme} [post]
// @Router      /haiku/generate/{theme} [put]
func (h *Handlers) GenerateHaiku(c *gin.Context) {
	theme := utils.OptionalString(c.Param("theme"))
	if theme != nil && utf8.RuneCountInString(*theme) > maxThemeRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "", fmt.Sprintf("theme must be at most %d characters", maxThemeRunes))
		return
	}
	h.generate(c, theme)
}

// GenerateRandomHaiku godoc
// @ID          generateRandomHaiku
// @Summary     Generate a haiku with a random theme
// @Description Generates a haiku on a pleasant, zen theme. The stored theme is null.
// @Tags        Haiku
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"
//
// @Success     201  {object}  domain.Haiku
// @Success     200  {object}  domain.Haiku           "Replayed"
// @Failure     500  {object}  handlers.ErrorResponse "Generation failed"
// @Router      /haiku/generate [post]
// @Router      /haiku/generate [put]
// @Router      /haiku/generate/random [post]
// @Router      /haiku/generate/random [put]
func (h *Handlers) GenerateRandomHaiku(c *gin.Context) {
	h.generate(c, nil)
}

func (h *Handlers) generate(c *gin.Context, theme *string) {
	ctx := c.Request.Context()
	lg := middleware.LoggerFrom(c)

	// Idempotency (replay path)
	if id, replay := middleware.ReplayID(c); replay {
		prev, err := h.haikuSvc.GetHaikuByID(ctx, id)
		if err == nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, prev)
			return
		}
		lg.Warn().Err(err).Uint("haiku_id", id).Msg("idempotent replay target unavailable; generating")
	}

	rec, err := h.haikuSvc.GenerateHaiku(ctx, ginRequest{c: c}, theme)
	if err != nil {
		failFrom(c, err)
		return
	}

	// Idempotency (store path), best effort
	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if err := h.idem.Remember(ctx, middleware.IdempotencyScope(c), key, rec.ID); err != nil {
			lg.Warn().Err(err).Uint("haiku_id", rec.ID).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, rec)
}

// ListHaikus godoc
// @ID          listHaikus
// @Summary     List all haikus
// @Description Returns every stored haiku in id order. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Haiku
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"haikus:3:3\")
//
// @Success     200  {array}   domain.Haiku
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /haiku [get]
func (h *Handlers) ListHaikus(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). Records are never edited in place, so
	// count and highest id identify the collection state.
	if st, isStats := h.haikuSvc.(HaikuStats); isStats {
		if count, maxID, err := st.Stats(ctx); err == nil {
			etag := fmt.Sprintf(`W/"haikus:%d:%d"`, count, maxID)
			c.Header("ETag", etag)
			if etagMatches(c.GetHeader("If-None-Match"), etag) {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.haikuSvc.GetAllHaikus(ctx)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetRandomHaiku godoc
// @ID          getRandomHaiku
// @Summary     Get a random haiku
// @Description Picks one stored haiku uniformly at random.
// @Tags        Haiku
// @Produce     json
//
// @Success     200  {object}  domain.Haiku
// @Failure     404  {object}  handlers.ErrorResponse "No haiku stored"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /haiku/random [get]
func (h *Handlers) GetRandomHaiku(c *gin.Context) {
	h.random(c, nil)
}

// GetRandomHaikuByTheme godoc
// @ID          getRandomHaikuByTheme
// @Summary     Get a random haiku about a theme
// @Description Picks one stored haiku whose theme equals the given theme exactly.
// @Tags        Haiku
// @Produce     json
//
// @Param       theme  path  string  true  "Theme"  example(ocean)
//
// @Success     200  {object}  domain.Haiku
// @Failure     404  {object}  handlers.ErrorResponse "No haiku with that theme"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /haiku/random/{theme} [get]
func (h *Handlers) GetRandomHaikuByTheme(c *gin.Context) {
	h.random(c, utils.OptionalString(c.Param("theme")))
}

func (h *Handlers) random(c *gin.Context, theme *string) {
	rec, err := h.haikuSvc.GetRandomHaiku(c.Request.Context(), theme)
	if err != nil {
		failFrom(c, err)
		return
	}
	if rec == nil {
		msg := "no haiku found"
		if theme != nil {
			msg = fmt.Sprintf("no haiku found for theme %q", *theme)
		}
		fail(c, http.StatusNotFound, ErrCodeNotFound, "", msg)
		return
	}
	ok(c, http.StatusOK, rec)
}

// GetHaiku godoc
// @ID          getHaiku
// @Summary     Get a haiku by id
// @Tags        Haiku
// @Produce     json
//
// @Param       id  path  int  true  "Haiku ID"  minimum(1)  example(1)
//
// @Success     200  {object}  domain.Haiku
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Haiku not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /haiku/{id} [get]
func (h *Handlers) GetHaiku(c *gin.Context) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "", "id must be a positive integer")
		return
	}
	rec, err := h.haikuSvc.GetHaikuByID(c.Request.Context(), id)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// etagMatches reports whether an If-None-Match header value matches etag.
// The header may list several tags or be "*".
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, t := range strings.Split(header, ",") {
		t = strings.TrimSpace(t)
		if t == "*" || t == etag {
			return true
		}
	}
	return false
}
