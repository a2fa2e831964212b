//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/cache"
	"github.com/devflexlabs/flex-analise-backend/pkg/testutil"
)

func TestRedisRateCache(t *testing.T) {
	addr := testutil.NewTestRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	c := cache.NewRedisRateCache(client, time.Minute, nil)
	require.NoError(t, c.Ping(ctx))

	_, ok := c.Get(ctx, "sgs:cdi_annualized:2024-05-15")
	assert.False(t, ok)

	c.Set(ctx, "sgs:cdi_annualized:2024-05-15", decimal.RequireFromString("10.40"))
	v, ok := c.Get(ctx, "sgs:cdi_annualized:2024-05-15")
	require.True(t, ok)
	assert.Equal(t, "10.4", v.String())

	ttl, err := client.TTL(ctx, "flex-analise:sgs:cdi_annualized:2024-05-15").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisRateCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedisRateCache(client, time.Minute, nil)
	c.Set(context.Background(), "k", decimal.NewFromInt(1))
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
