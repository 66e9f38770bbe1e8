package geo

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Cache stores ip -> country code results.
type Cache interface {
	// Get returns the cached code and whether it was present.
	Get(ctx context.Context, ip string) (string, bool, error)
	Set(ctx context.Context, ip, code string) error
}

// RedisCache is a Cache on top of a Redis client. Entries expire after TTL.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

// NewRedisCache connects a RedisCache. The connection is lazy; call Ping to
// verify reachability.
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		Client: redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    password,
			DB:          db,
			DialTimeout: 2 * time.Second,
			ReadTimeout: time.Second,
		}),
		TTL:    ttl,
		Prefix: "geo:ip:",
	}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, ip string) (string, bool, error) {
	v, err := r.Client.Get(ctx, r.Prefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, ip, code string) error {
	return r.Client.Set(ctx, r.Prefix+ip, code, r.TTL).Err()
}

// Ping checks the Redis connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	return r.Client.Close()
}

// CachedLookup consults Cache before delegating to Next. Cache failures are
// logged and treated as misses so a cache outage never fails a lookup.
type CachedLookup struct {
	Next  Lookuper
	Cache Cache
}

// LookupCountryCode implements Lookuper.
func (c *CachedLookup) LookupCountryCode(ctx context.Context, ip string) (string, error) {
	if c.Cache != nil {
		code, ok, err := c.Cache.Get(ctx, ip)
		switch {
		case err != nil:
			log.Ctx(ctx).Warn().Err(err).Msg("geo cache get failed")
		case ok:
			return code, nil
		}
	}

	code, err := c.Next.LookupCountryCode(ctx, ip)
	if err != nil {
		return "", err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, ip, code); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("geo cache set failed")
		}
	}
	return code, nil
}
