// Package cache keeps fetched quote batches in Redis so repeated runs over the
// same source and window skip the provider. Batches are stored as CSV so NaN
// prices from partial bars survive the round trip.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "argo-indicators:quotes"
	DefaultTTL = 15 * time.Minute
)

// RedisClient is the subset of the go-redis client used by QuoteCache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Observer is notified of cache lookups.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "redis ping %s failed", cfg.Addr)
	}

	return client, nil
}

// QuoteCache wraps a quote source with a read-through Redis cache.
// Redis failures are logged and fall back to the source; they never fail a fetch.
type QuoteCache struct {
	source   engine.QuoteSource
	sourceID string
	client   RedisClient
	ttl      time.Duration
	observer Observer
	log      *logger.Logger
}

// NewQuoteCache creates a cache in front of source. sourceID identifies where source
// reads from (see marketdata.ClientConfig.SourceID) and is part of every key.
// A non-positive ttl uses DefaultTTL. observer may be nil.
func NewQuoteCache(
	source engine.QuoteSource,
	sourceID string,
	client RedisClient,
	ttl time.Duration,
	observer Observer,
	log *logger.Logger,
) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &QuoteCache{
		source:   source,
		sourceID: sourceID,
		client:   client,
		ttl:      ttl,
		observer: observer,
		log:      log.Named("cache"),
	}
}

// Key returns the cache key for params read from sourceID. Relative windows are
// keyed by range name, so they share an entry until it expires.
func Key(sourceID string, params marketdata.FetchParams) string {
	window := "range:" + string(params.Range)
	if params.Start.IsSome() {
		window = fmt.Sprintf("start:%d", params.Start.Unwrap().Unix())
		if params.End.IsSome() {
			window += fmt.Sprintf(":end:%d", params.End.Unwrap().Unix())
		}
	}

	return fmt.Sprintf("%s:%s:%s:%s:%s", keyPrefix, sourceID, params.Ticker, params.Interval, window)
}

// Fetch returns cached quotes for params or fetches and stores them.
func (c *QuoteCache) Fetch(ctx context.Context, params marketdata.FetchParams) ([]types.Quote, error) {
	key := Key(c.sourceID, params)

	if quotes, ok := c.lookup(ctx, key); ok {
		c.notify(true)

		return quotes, nil
	}

	c.notify(false)

	quotes, err := c.source.Fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, quotes)

	return quotes, nil
}

func (c *QuoteCache) lookup(ctx context.Context, key string) ([]types.Quote, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
		}

		return nil, false
	}

	var quotes []types.Quote
	if err := gocsv.UnmarshalBytes(raw, &quotes); err != nil || len(quotes) == 0 {
		c.log.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))

		return nil, false
	}

	c.log.Debug("Cache hit", zap.String("key", key), zap.Int("quotes", len(quotes)))

	return quotes, true
}

func (c *QuoteCache) store(ctx context.Context, key string, quotes []types.Quote) {
	raw, err := gocsv.MarshalBytes(&quotes)
	if err != nil {
		c.log.Warn("Failed to encode quotes for cache", zap.String("key", key), zap.Error(err))

		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *QuoteCache) notify(hit bool) {
	if c.observer == nil {
		return
	}

	if hit {
		c.observer.CacheHit()
	} else {
		c.observer.CacheMiss()
	}
}
