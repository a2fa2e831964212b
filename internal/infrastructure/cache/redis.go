package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const redisKeyPrefix = "flex-analise:"

// RedisRateCache shares rates between replicas through Redis. Redis errors
// are logged and treated as cache misses.
type RedisRateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisRateCache wraps an existing Redis client.
func NewRedisRateCache(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisRateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisRateCache) Get(ctx context.Context, key string) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Decimal{}, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "rate cache read failed", "key", key, "error", err)
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "rate cache holds invalid value", "key", key, "value", raw)
		return decimal.Decimal{}, false
	}
	return d, true
}

func (c *RedisRateCache) Set(ctx context.Context, key string, value decimal.Decimal) {
	if err := c.client.Set(ctx, redisKeyPrefix+key, value.String(), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "rate cache write failed", "key", key, "error", err)
	}
}

// Ping checks connectivity, for readiness probes.
func (c *RedisRateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
