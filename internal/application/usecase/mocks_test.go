package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// mockAnalysisRepository
// ---------------------------------------------------------------------------

type mockAnalysisRepository struct {
	mu                 sync.Mutex
	saveFunc           func(ctx context.Context, a model.ContractAnalysis) error
	findByIDFunc       func(ctx context.Context, id uuid.UUID) (model.ContractAnalysis, error)
	findByContractFunc func(ctx context.Context, number, bank string) (model.ContractAnalysis, error)
	savedAnalyses      []model.ContractAnalysis
}

func (m *mockAnalysisRepository) Save(ctx context.Context, a model.ContractAnalysis) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedAnalyses = append(m.savedAnalyses, a)
	return nil
}

func (m *mockAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (model.ContractAnalysis, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.ContractAnalysis{}, port.ErrAnalysisNotFound
}

func (m *mockAnalysisRepository) FindByContract(ctx context.Context, number, bank string) (model.ContractAnalysis, error) {
	if m.findByContractFunc != nil {
		return m.findByContractFunc(ctx, number, bank)
	}
	return model.ContractAnalysis{}, port.ErrAnalysisNotFound
}

// ---------------------------------------------------------------------------
// mockRateProvider
// ---------------------------------------------------------------------------

type mockRateProvider struct {
	fetchFunc func(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool)
}

func (m *mockRateProvider) FetchReferenceRate(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, index, date)
	}
	return decimal.Zero, false
}

// ---------------------------------------------------------------------------
// mockSeriesSource
// ---------------------------------------------------------------------------

type mockSeriesSource struct {
	historyFunc func(ctx context.Context, series valueobject.Series, from, to time.Time) []model.RatePoint
	calls       int
}

func (m *mockSeriesSource) FetchRate(context.Context, valueobject.Series, time.Time) (decimal.Decimal, bool) {
	return decimal.Zero, false
}

func (m *mockSeriesSource) FetchHistory(ctx context.Context, series valueobject.Series, from, to time.Time) []model.RatePoint {
	m.calls++
	if m.historyFunc != nil {
		return m.historyFunc(ctx, series, from, to)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockMetrics
// ---------------------------------------------------------------------------

type mockMetrics struct {
	mu        sync.Mutex
	outcomes  []string
	irregular int
}

func (m *mockMetrics) RecordRecalculation(_ context.Context, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) RecordIrregular(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.irregular++
}

func (m *mockMetrics) RecordRateLookup(context.Context, string, string) {}

// ---------------------------------------------------------------------------
// mockSingleRecalculator
// ---------------------------------------------------------------------------

type mockSingleRecalculator struct {
	executeFunc func(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

func (m *mockSingleRecalculator) Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error) {
	return m.executeFunc(ctx, req)
}

func ptr[T any](v T) *T { return &v }

var dec = decimal.RequireFromString
