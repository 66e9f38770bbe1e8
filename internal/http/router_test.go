package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-haiku-backend/internal/config"
	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/http/middleware"
	"github.com/tbourn/go-haiku-backend/internal/llm"
	"github.com/tbourn/go-haiku-backend/internal/repo"
)

// --- fakes for the external providers ---

type fakePoems struct {
	poem  llm.Poem
	err   error
	calls int
}

func (f *fakePoems) GeneratePoem(context.Context, *string) (llm.Poem, error) {
	f.calls++
	return f.poem, f.err
}

func (f *fakePoems) ProviderName() string { return "fake" }

type fakeLookup map[string]string

func (f fakeLookup) LookupCountryCode(_ context.Context, ip string) (string, error) {
	if code, ok := f[ip]; ok {
		return code, nil
	}
	return "", errors.New("no mapping for " + ip)
}

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		CORS:           config.CORSConfig{AllowedOrigins: nil},
		Security:       config.SecurityConfig{EnableHSTS: false},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Geo:            config.GeoConfig{FallbackIP: "8.8.8.8"},
		IdempotencyTTL: time.Hour,
	}
}

func newEngine(t *testing.T, cfg config.Config, poems *fakePoems) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, Deps{DB: db, Poems: poems, Lookup: fakeLookup{"8.8.8.8": "US", "81.2.69.160": "GB"}}, cfg)
	return r, db
}

func do(r http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "127.0.0.1:40000"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Ping_Metrics_Fallbacks(t *testing.T) {
	r, _ := newEngine(t, testConfig(), &fakePoems{})

	w := do(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	for _, p := range []string{"/ping", "/api/v1/ping"} {
		w = do(r, http.MethodGet, p, nil)
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"status":"ok"}` {
			t.Fatalf("GET %s = %d %s", p, w.Code, w.Body.String())
		}
	}

	w = do(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("GET /metrics bad: code=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodPost, "/health", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
	w = do(r, http.MethodDelete, "/api/v1/haiku/1", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE /haiku/1 expected 405, got %d", w.Code)
	}

	// swagger is off unless enabled
	w = do(r, http.MethodGet, "/swagger/index.html", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_AndSwagger(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"http://example.com"}
	cfg.SwaggerEnabled = true
	r, _ := newEngine(t, cfg, &fakePoems{})

	w := do(r, http.MethodGet, "/health", map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	w = do(r, http.MethodGet, "/health", map[string]string{"Origin": "http://evil.example"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin expected 403, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/swagger/doc.json", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/haiku/generate/{theme}") {
		t.Fatalf("swagger doc: %d", w.Code)
	}
}

func TestEndToEnd_GenerateReadAndLog(t *testing.T) {
	poems := &fakePoems{poem: llm.Poem{LineOne: "a", LineTwo: "b", LineThree: "c"}}
	r, _ := newEngine(t, testConfig(), poems)

	// loopback caller: fallback ip resolves to the United States
	w := do(r, http.MethodPost, "/api/v1/haiku/generate/ocean", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	var created domain.Haiku
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json: %v", err)
	}
	if created.ID == 0 || created.Theme == nil || *created.Theme != "ocean" ||
		created.LineOne != "a" || created.LineTwo != "b" || created.LineThree != "c" ||
		created.Country == nil || created.Country.Name != "United States" {
		t.Fatalf("unexpected record: %+v", created)
	}

	// unthemed
	w = do(r, http.MethodPut, "/api/v1/haiku/generate/random", nil)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"theme":null`) {
		t.Fatalf("random generate: %d %s", w.Code, w.Body.String())
	}

	// themes are stored exactly as requested
	w = do(r, http.MethodPost, "/api/v1/haiku/generate/%20tide", nil)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"theme":" tide"`) {
		t.Fatalf("padded theme: %d %s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodGet, "/api/v1/haiku/random/tide", nil); w.Code != http.StatusNotFound {
		t.Fatalf("trimmed theme must not match: %d", w.Code)
	}
	if w = do(r, http.MethodGet, "/api/v1/haiku/random/%20tide", nil); w.Code != http.StatusOK {
		t.Fatalf("exact theme must match: %d", w.Code)
	}

	// point lookup
	w = do(r, http.MethodGet, fmt.Sprintf("/api/v1/haiku/%d", created.ID), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"United States"`) {
		t.Fatalf("get by id: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/v1/haiku/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id: %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/v1/haiku/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}

	// random by theme
	w = do(r, http.MethodGet, "/api/v1/haiku/random/ocean", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"theme":"ocean"`) {
		t.Fatalf("random ocean: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/v1/haiku/random/desert", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("random desert: %d", w.Code)
	}

	// list + etag
	w = do(r, http.MethodGet, "/api/v1/haiku", nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag != `W/"haikus:3:3"` {
		t.Fatalf("list: %d etag=%q", w.Code, etag)
	}
	w = do(r, http.MethodGet, "/api/v1/haiku", map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional list: %d", w.Code)
	}

	// provider failure is recorded and surfaced with its label
	poems.err = llm.ErrMalformedPoem
	w = do(r, http.MethodPost, "/api/v1/haiku/generate/ocean", nil)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), `"label":"failed to generate new haiku"`) {
		t.Fatalf("failed generate: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/v1/logging", nil)
	var entries []domain.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("logging json: %v", err)
	}
	// one warn row for /haiku/999 and one for the failed generation
	if w.Code != http.StatusOK || len(entries) != 2 || entries[1].Error != "failed to generate new haiku" {
		t.Fatalf("logging: %d %+v", w.Code, entries)
	}
}

func TestEndToEnd_IdempotentReplay(t *testing.T) {
	poems := &fakePoems{poem: llm.Poem{LineOne: "a", LineTwo: "b", LineThree: "c"}}
	r, db := newEngine(t, testConfig(), poems)
	hdr := map[string]string{middleware.HeaderIdempotencyKey: "retry-1"}

	first := do(r, http.MethodPost, "/api/v1/haiku/generate/moss", hdr)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: %d %s", first.Code, first.Body.String())
	}
	second := do(r, http.MethodPut, "/api/v1/haiku/generate/moss", hdr)
	if second.Code != http.StatusOK || second.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("second: %d %v", second.Code, second.Header())
	}
	if poems.calls != 1 {
		t.Fatalf("provider called %d times", poems.calls)
	}
	var a, b domain.Haiku
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(second.Body.Bytes(), &b)
	if a.ID != b.ID {
		t.Fatalf("replay returned a different record: %d vs %d", a.ID, b.ID)
	}

	var n int64
	db.Model(&domain.Idempotency{}).Count(&n)
	if n != 1 {
		t.Fatalf("idempotency rows = %d", n)
	}

	bad := do(r, http.MethodPost, "/api/v1/haiku/generate/moss", map[string]string{middleware.HeaderIdempotencyKey: "no spaces allowed"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("bad key: %d", bad.Code)
	}
}

func TestEndToEnd_CountryFailureStrictAndBestEffort(t *testing.T) {
	poems := &fakePoems{poem: llm.Poem{LineOne: "a", LineTwo: "b", LineThree: "c"}}

	cfg := testConfig()
	cfg.Geo.FallbackIP = "10.0.0.1" // unmapped in fakeLookup
	r, _ := newEngine(t, cfg, poems)
	w := do(r, http.MethodPost, "/api/v1/haiku/generate", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("strict: %d %s", w.Code, w.Body.String())
	}

	cfg.Geo.BestEffort = true
	r, _ = newEngine(t, cfg, poems)
	w = do(r, http.MethodPost, "/api/v1/haiku/generate", nil)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"country":null`) {
		t.Fatalf("best effort: %d %s", w.Code, w.Body.String())
	}
}

func Test_idemStore_RememberLookup(t *testing.T) {
	db := newTestDB(t)
	s := idemStore{db: db, ttl: time.Minute}
	ctx := context.Background()
	now := time.Now().UTC()

	if _, found, err := s.Lookup(ctx, "/g", "k", now); found || err != nil {
		t.Fatalf("empty lookup: found=%v err=%v", found, err)
	}
	if err := s.Remember(ctx, "/g", "k", 4); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	// duplicate is absorbed
	if err := s.Remember(ctx, "/g", "k", 5); err != nil {
		t.Fatalf("Remember dup: %v", err)
	}
	id, found, err := s.Lookup(ctx, "/g", "k", now)
	if err != nil || !found || id != 4 {
		t.Fatalf("Lookup = (%d, %v, %v)", id, found, err)
	}
	if _, found, _ := s.Lookup(ctx, "/g", "k", now.Add(2*time.Minute)); found {
		t.Fatalf("expired record must not be found")
	}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if _, _, err := s.Lookup(ctx, "/g", "k", now); err == nil {
		t.Fatalf("expected error on closed db")
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
