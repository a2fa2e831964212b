package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

type mockRateProvider struct {
	fetchFunc func(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool)
}

func (m *mockRateProvider) FetchReferenceRate(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, index, date)
	}
	return decimal.Zero, false
}

func ptr[T any](v T) *T { return &v }

var dec = decimal.RequireFromString
