package bacen_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/bacen"
)

type mockSource struct {
	fetchRateFunc func(ctx context.Context, series valueobject.Series, date time.Time) (decimal.Decimal, bool)
	calls         []valueobject.Series
}

func (m *mockSource) FetchRate(ctx context.Context, series valueobject.Series, date time.Time) (decimal.Decimal, bool) {
	m.calls = append(m.calls, series)
	if m.fetchRateFunc != nil {
		return m.fetchRateFunc(ctx, series, date)
	}
	return decimal.Decimal{}, false
}

func (m *mockSource) FetchHistory(_ context.Context, _ valueobject.Series, _, _ time.Time) []model.RatePoint {
	return []model.RatePoint{{Value: decimal.NewFromInt(1)}}
}

type mockMetrics struct {
	lookups []string
}

func (m *mockMetrics) RecordRecalculation(context.Context, string) {}
func (m *mockMetrics) RecordIrregular(context.Context)             {}
func (m *mockMetrics) RecordRateLookup(_ context.Context, index, result string) {
	m.lookups = append(m.lookups, index+"/"+result)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]decimal.Decimal
}

func (c *mapCache) Get(_ context.Context, key string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func TestReferenceRateProvider_UsesIndexSeries(t *testing.T) {
	source := &mockSource{
		fetchRateFunc: func(_ context.Context, series valueobject.Series, _ time.Time) (decimal.Decimal, bool) {
			if series == valueobject.SeriesCDIAnnualized {
				return decimal.NewFromFloat(10.4), true
			}
			return decimal.Decimal{}, false
		},
	}
	metrics := &mockMetrics{}
	provider := bacen.NewReferenceRateProvider(source, metrics)
	date := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	v, ok := provider.FetchReferenceRate(context.Background(), valueobject.ReferenceIndexInterbankRate, date)
	require.True(t, ok)
	assert.Equal(t, "10.4", v.String())

	_, ok = provider.FetchReferenceRate(context.Background(), valueobject.ReferenceIndex{}, date)
	assert.False(t, ok)

	assert.Equal(t, []valueobject.Series{valueobject.SeriesCDIAnnualized, valueobject.SeriesSelicMonthly}, source.calls)
	assert.Equal(t, []string{"interbank_rate/found", "policy_rate/miss"}, metrics.lookups)
}

func TestCachedSource(t *testing.T) {
	hits := 0
	source := &mockSource{
		fetchRateFunc: func(_ context.Context, _ valueobject.Series, date time.Time) (decimal.Decimal, bool) {
			hits++
			if date.Month() == time.June {
				return decimal.Decimal{}, false
			}
			return decimal.NewFromFloat(10.5), true
		},
	}
	cached := bacen.NewCachedSource(source, &mapCache{data: map[string]decimal.Decimal{}})
	ctx := context.Background()

	t.Run("found values are served from cache within the period", func(t *testing.T) {
		hits = 0
		_, ok := cached.FetchRate(ctx, valueobject.SeriesSelicMonthly, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
		require.True(t, ok)
		v, ok := cached.FetchRate(ctx, valueobject.SeriesSelicMonthly, time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC))
		require.True(t, ok)
		assert.Equal(t, "10.5", v.String())
		assert.Equal(t, 1, hits)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		hits = 0
		june := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		_, ok := cached.FetchRate(ctx, valueobject.SeriesSelicMonthly, june)
		assert.False(t, ok)
		_, ok = cached.FetchRate(ctx, valueobject.SeriesSelicMonthly, june)
		assert.False(t, ok)
		assert.Equal(t, 2, hits)
	})

	t.Run("history bypasses the cache", func(t *testing.T) {
		assert.Len(t, cached.FetchHistory(ctx, valueobject.SeriesSelicMonthly, time.Now(), time.Now()), 1)
	})
}

func TestCacheKey(t *testing.T) {
	d := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "sgs:selic_monthly:2024-05", bacen.CacheKey(valueobject.SeriesSelicMonthly, d))
	assert.Equal(t, "sgs:cdi_annualized:2024-05-15", bacen.CacheKey(valueobject.SeriesCDIAnnualized, d))
}
