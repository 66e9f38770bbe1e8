// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database connection, the text-generation
// and geolocation providers, and observability.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-haiku-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the database driver and its connection parameters.
type DBConfig struct {
	Driver  string // sqlite|postgres
	Path    string // SQLite path
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
}

// DSN renders the Postgres connection string for the configured parameters.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
}

// LLMConfig configures the external text-generation provider.
type LLMConfig struct {
	Provider      string // openai|gemini
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	Timeout       time.Duration
}

// GeoConfig configures the IP geolocation lookup.
type GeoConfig struct {
	BaseURL      string        // GET {BaseURL}/{ip}
	CountryField string        // gjson path of the ISO code in the response body
	FallbackIP   string        // substituted for loopback addresses (dev stand-in)
	Timeout      time.Duration // per-lookup HTTP timeout
	CacheTTL     time.Duration // Redis cache TTL for ip -> code
	BestEffort   bool          // COUNTRY_BEST_EFFORT: generation continues without a country on lookup failure
}

// RedisConfig configures the optional geolocation cache.
type RedisConfig struct {
	Addr     string // empty disables the cache
	Password string
	DB       int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s, generation waits on the provider
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful shutdown window
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DB    DBConfig
	Redis RedisConfig

	// External providers
	LLM LLMConfig
	Geo GeoConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 15*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Storage
		DB: DBConfig{
			Driver:  strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:    getenv("DB_PATH", "haiku.db"),
			Host:    getenv("DB_HOST", "localhost"),
			Port:    getint("DB_PORT", 5432),
			User:    getenv("DB_USER", "postgres"),
			Pass:    getenv("DB_PASS", ""),
			Name:    getenv("DB_NAME", "haiku"),
			SSLMode: getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},

		// External providers
		LLM: LLMConfig{
			Provider:      strings.ToLower(getenv("LLM_PROVIDER", "openai")),
			OpenAIKey:     getenv("OPENAI_API_KEY", ""),
			OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: strings.TrimRight(getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			GeminiKey:     getenv("GEMINI_API_KEY", ""),
			GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:       getdur("LLM_TIMEOUT", 30*time.Second),
		},
		Geo: GeoConfig{
			BaseURL:      strings.TrimRight(getenv("GEO_BASE_URL", "https://api.country.is"), "/"),
			CountryField: getenv("GEO_COUNTRY_FIELD", "country"),
			FallbackIP:   getenv("GEO_FALLBACK_IP", "8.8.8.8"),
			Timeout:      getdur("GEO_TIMEOUT", 5*time.Second),
			CacheTTL:     getdur("GEO_CACHE_TTL", 24*time.Hour),
			BestEffort:   getbool("COUNTRY_BEST_EFFORT", false),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-haiku-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.Host) == "" || strings.TrimSpace(cfg.DB.Name) == "" {
			return cfg, errors.New("DB_HOST and DB_NAME must not be empty")
		}
		if cfg.DB.Port <= 0 || cfg.DB.Port > 65535 {
			return cfg, errors.New("DB_PORT must be in [1,65535]")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	switch cfg.LLM.Provider {
	case "openai", "gemini":
	default:
		return cfg, errors.New("LLM_PROVIDER must be one of: openai, gemini")
	}
	if cfg.LLM.Timeout <= 0 || cfg.Geo.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT and GEO_TIMEOUT must be positive durations")
	}
	if strings.TrimSpace(cfg.Geo.BaseURL) == "" {
		return cfg, errors.New("GEO_BASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.Geo.CountryField) == "" {
		return cfg, errors.New("GEO_COUNTRY_FIELD must not be empty")
	}
	if net.ParseIP(cfg.Geo.FallbackIP) == nil {
		return cfg, errors.New("GEO_FALLBACK_IP must be a valid IP address")
	}
	if cfg.Geo.CacheTTL <= 0 {
		return cfg, errors.New("GEO_CACHE_TTL must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
