package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/config"
	"github.com/tbourn/go-haiku-backend/internal/geo"
	httpapi "github.com/tbourn/go-haiku-backend/internal/http"
	"github.com/tbourn/go-haiku-backend/internal/llm"
	"github.com/tbourn/go-haiku-backend/internal/observability"
	"github.com/tbourn/go-haiku-backend/internal/repo"
	"github.com/tbourn/go-haiku-backend/internal/sysutil"
)

const (
	name           = "haikud"
	defaultEnvFile = ".env"
	purgeEvery     = 10 * time.Minute
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "haiku generation API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   defaultEnvFile,
				Usage:   "dotenv file loaded before reading configuration",
				Sources: cli.EnvVars("ENV_FILE"),
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "listen port (overrides PORT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			log.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
			return nil
		},
	}
}

// loadConfig reads the dotenv file, loads and validates the environment,
// applies flag overrides and installs the global logger.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	if err := loadEnvFile(cmd.String("env-file"), cmd.IsSet("env-file")); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, name), cfg.LogPretty)
	return cfg, nil
}

// loadEnvFile loads path into the environment. A missing file is only an
// error when the caller asked for it explicitly.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return nil
	default:
		return fmt.Errorf("load env file %q: %w", path, err)
	}
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newLookup builds the geolocation client, fronted by the Redis cache when
// one is configured and reachable. The returned func releases the cache.
func newLookup(ctx context.Context, cfg config.Config) (geo.Lookuper, func() error) {
	client := geo.NewClient(cfg.Geo.BaseURL, cfg.Geo.CountryField, cfg.Geo.Timeout)
	if cfg.Redis.Addr == "" {
		return client, func() error { return nil }
	}

	cache := geo.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Geo.CacheTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("geo cache unavailable, continuing without it")
		_ = cache.Close()
		return client, func() error { return nil }
	}
	return &geo.CachedLookup{Next: client, Cache: cache}, cache.Close
}

func newHTTPServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// purgeLoop removes expired idempotency records every interval until ctx
// is done.
func purgeLoop(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired idempotency records removed")
			}
		}
	}
}

// startPurge runs purgeLoop in the background. The returned func cancels it
// and blocks until the loop has returned.
func startPurge(ctx context.Context, db *gorm.DB, every time.Duration) func() {
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		purgeLoop(loopCtx, db, every)
	}()
	return func() {
		cancel()
		<-done
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	lookup, closeLookup := newLookup(ctx, cfg)
	defer func() { _ = closeLookup() }()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:     db,
		Poems:  llm.NewGenerator(provider),
		Lookup: lookup,
	}, cfg)

	srv := newHTTPServer(cfg, r)

	// stopPurge runs before closeDB so no purge races the pool shutdown.
	stopPurge := startPurge(ctx, db, purgeEvery)
	defer stopPurge()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("provider", provider.Name()).
			Str("db", cfg.DB.Driver).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
