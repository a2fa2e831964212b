package bacen

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// ReferenceRateProvider resolves reference indexes against an SGS series
// source. It implements port.ReferenceRateProvider.
type ReferenceRateProvider struct {
	source  port.RateSeriesSource
	metrics port.Metrics
}

// NewReferenceRateProvider creates a provider. metrics may be nil.
func NewReferenceRateProvider(source port.RateSeriesSource, metrics port.Metrics) *ReferenceRateProvider {
	return &ReferenceRateProvider{source: source, metrics: metrics}
}

func (p *ReferenceRateProvider) FetchReferenceRate(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool) {
	if index.IsZero() {
		index = valueobject.ReferenceIndexPolicyRate
	}
	v, ok := p.source.FetchRate(ctx, index.Series(), date)
	if p.metrics != nil {
		result := port.LookupMiss
		if ok {
			result = port.LookupFound
		}
		p.metrics.RecordRateLookup(ctx, index.String(), result)
	}
	return v, ok
}

// RateCache stores found series values by key.
type RateCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, bool)
	Set(ctx context.Context, key string, value decimal.Decimal)
}

// CachedSource memoises found rates of an underlying source. Misses are
// never cached so a later lookup can succeed once BACEN publishes the point.
type CachedSource struct {
	next  port.RateSeriesSource
	cache RateCache
}

// NewCachedSource decorates next with cache.
func NewCachedSource(next port.RateSeriesSource, cache RateCache) *CachedSource {
	return &CachedSource{next: next, cache: cache}
}

func (s *CachedSource) FetchRate(ctx context.Context, series valueobject.Series, date time.Time) (decimal.Decimal, bool) {
	key := CacheKey(series, date)
	if v, ok := s.cache.Get(ctx, key); ok {
		return v, true
	}
	v, ok := s.next.FetchRate(ctx, series, date)
	if ok {
		s.cache.Set(ctx, key, v)
	}
	return v, ok
}

func (s *CachedSource) FetchHistory(ctx context.Context, series valueobject.Series, from, to time.Time) []model.RatePoint {
	return s.next.FetchHistory(ctx, series, from, to)
}

// CacheKey identifies the observation period of date within series: the
// month for monthly series, the day for daily ones.
func CacheKey(series valueobject.Series, date time.Time) string {
	if series.Periodicity() == valueobject.Monthly {
		return "sgs:" + series.Name() + ":" + date.Format("2006-01")
	}
	return "sgs:" + series.Name() + ":" + date.Format(time.DateOnly)
}
