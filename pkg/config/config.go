// Package config holds the settings shared by every partnermap binary:
// where API data comes from and where query results are cached.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/store/redis"
)

const (
	DefaultAPIURL        = "http://127.0.0.1:8095"
	DefaultCacheTTL      = 5 * time.Minute
	DefaultRedisAttempts = 3
)

// Common is the data-source part of every binary's configuration.
type Common struct {
	Mode        client.Source
	APIURL      string
	HTTPTimeout time.Duration
	RedisAddr   string
	CacheTTL    time.Duration

	// RedisAttempts is how many times OpenCache pings Redis before giving up.
	RedisAttempts int
}

// LoadDotEnv reads .env from the working directory when one exists.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// CommonFromEnv reads the PARTNERMAP_* variables, applying defaults.
func CommonFromEnv() (Common, error) {
	c := Common{
		Mode:          client.Source(EnvOrDefault("PARTNERMAP_MODE", string(client.SourceFixture))),
		APIURL:        EnvOrDefault("PARTNERMAP_API_URL", DefaultAPIURL),
		RedisAddr:     os.Getenv("PARTNERMAP_REDIS_ADDR"),
		CacheTTL:      DefaultCacheTTL,
		RedisAttempts: DefaultRedisAttempts,
	}
	var err error
	if c.HTTPTimeout, err = durationEnv("PARTNERMAP_HTTP_TIMEOUT", 0); err != nil {
		return Common{}, err
	}
	if c.CacheTTL, err = durationEnv("PARTNERMAP_CACHE_TTL", DefaultCacheTTL); err != nil {
		return Common{}, err
	}
	return c, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// Flags binds c's fields to flags so command-line values override the
// environment. Call Validate after parsing.
func (c *Common) Flags(flags *flag.FlagSet) {
	flags.Func("mode", "api source: fixture|live (default "+string(c.Mode)+")", func(v string) error {
		c.Mode = client.Source(v)
		return nil
	})
	flags.StringVar(&c.APIURL, "api-url", c.APIURL, "live backend base URL")
	flags.DurationVar(&c.HTTPTimeout, "http-timeout", c.HTTPTimeout, "live request timeout, 0 for none")
	flags.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "redis address for the query cache, empty for memory")
	flags.DurationVar(&c.CacheTTL, "cache-ttl", c.CacheTTL, "redis entry lifetime, 0 keeps entries until invalidated")
}

// Validate normalizes c and rejects unusable combinations.
func (c *Common) Validate() error {
	c.Mode = client.Source(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.RedisAddr = strings.TrimSpace(c.RedisAddr)

	switch c.Mode {
	case client.SourceFixture:
		// fixture data is per process
		if c.RedisAddr != "" {
			return errors.New("redis cache requires mode=live")
		}
	case client.SourceLive:
		if c.APIURL == "" {
			return errors.New("mode=live requires api-url")
		}
	default:
		return fmt.Errorf("unsupported mode: %s", c.Mode)
	}
	if c.HTTPTimeout < 0 {
		return errors.New("http timeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	return nil
}

// ClientOptions converts c for client.Open.
func (c Common) ClientOptions() client.Options {
	return client.Options{Source: c.Mode, Endpoint: c.APIURL, Timeout: c.HTTPTimeout}
}

// OpenCache returns a query cache in Redis when RedisAddr is set and in
// memory otherwise. Redis is pinged with backoff so a cache that starts
// alongside the binary has time to come up. The close func releases the
// Redis connection.
func (c Common) OpenCache(ctx context.Context) (*query.Cache, func() error, error) {
	if c.RedisAddr == "" {
		return query.NewCache(nil), func() error { return nil }, nil
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: c.RedisAddr})
	ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	if err := retry(ctx, DefaultBackoff(), c.RedisAttempts, ping); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", c.RedisAddr, err)
	}
	return query.NewCache(redis.NewRedisResultStore(rdb, c.CacheTTL)), rdb.Close, nil
}

// EnvOrDefault returns the value of key, or fallback when it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// AddrFromEnv reads PARTNERMAP_ADDR, then PARTNERMAP_PORT on loopback.
func AddrFromEnv(fallback string) string {
	if value := os.Getenv("PARTNERMAP_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("PARTNERMAP_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}
