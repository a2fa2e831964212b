package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/event"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/service"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

func newRecalculateUseCase(repo *mockAnalysisRepository, rates *mockRateProvider, metrics *mockMetrics) *usecase.RecalculateContractUseCase {
	if rates == nil {
		rates = &mockRateProvider{}
	}
	now := func() time.Time { return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC) }
	recalc := service.NewContractRecalculator(rates, service.NewMethodologyDetector(decimal.Zero), now)
	var m port.Metrics
	if metrics != nil {
		m = metrics
	}
	return usecase.NewRecalculateContractUseCase(repo, recalc, service.NewContractValidator(decimal.Zero), m, nil)
}

func validRequest() dto.RecalculateRequest {
	return dto.RecalculateRequest{
		ContractNumber:     "CCB-2024-000123",
		BankName:           "Banco Exemplo S.A.",
		CustomerDocument:   "123.456.789-00",
		Principal:          decimal.NewFromInt(50_000),
		MonthlyRatePercent: ptr(dec("2.5")),
		InstallmentCount:   ptr(60),
		InstallmentValue:   ptr(dec("1617.67")),
		FirstDueDate:       "2024-02-10",
		ContractDate:       "10/01/2024",
	}
}

func TestRecalculateContract_Execute(t *testing.T) {
	t.Run("recalculates and stores a regular contract", func(t *testing.T) {
		repo := &mockAnalysisRepository{}
		metrics := &mockMetrics{}
		uc := newRecalculateUseCase(repo, nil, metrics)

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.False(t, resp.AlreadyExisted)
		assert.Equal(t, "CCB-2024-000123", resp.ContractNumber)
		assert.True(t, resp.Report.Success)
		assert.Equal(t, "2024-01-10", resp.Report.ContractingDate)
		assert.Equal(t, "annuity", resp.Report.DetectedMethodology)
		assert.Equal(t, "Price", resp.Report.Annuity.Label)
		assert.Equal(t, "1617.67", resp.Report.Annuity.PeriodicPayment.String())
		require.Len(t, resp.Report.Annuity.Entries, 60)
		assert.Equal(t, "2024-02-10", resp.Report.Annuity.Entries[0].DueDate)
		assert.True(t, resp.Validation.Valid)
		assert.Empty(t, resp.Validation.Irregularities)

		require.Len(t, repo.savedAnalyses, 1)
		events := repo.savedAnalyses[0].DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, event.TypeContractRecalculated, events[0].EventType())
		assert.Equal(t, []string{port.OutcomeSuccess}, metrics.outcomes)
		assert.Zero(t, metrics.irregular)
	})

	t.Run("flags an irregular installment", func(t *testing.T) {
		repo := &mockAnalysisRepository{}
		metrics := &mockMetrics{}
		uc := newRecalculateUseCase(repo, nil, metrics)

		req := validRequest()
		req.InstallmentValue = ptr(dec("1640"))
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, resp.Validation.Valid)
		require.Len(t, resp.Validation.Irregularities, 1)
		assert.Contains(t, resp.Validation.Irregularities[0], "installment divergence")
		require.NotNil(t, resp.Report.StatedVsAnnuityDiff)
		assert.Equal(t, "22.33", resp.Report.StatedVsAnnuityDiff.StringFixed(2))

		require.Len(t, repo.savedAnalyses, 1)
		assert.Len(t, repo.savedAnalyses[0].DomainEvents(), 2)
		assert.Equal(t, 1, metrics.irregular)
	})

	t.Run("stores failed recalculations as advisories", func(t *testing.T) {
		repo := &mockAnalysisRepository{}
		metrics := &mockMetrics{}
		uc := newRecalculateUseCase(repo, nil, metrics)

		req := validRequest()
		req.InstallmentCount = nil
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, resp.Report.Success)
		assert.NotEmpty(t, resp.Report.Error)
		assert.True(t, resp.Validation.Valid)
		assert.NotEmpty(t, resp.Validation.Advisories)
		assert.Equal(t, []string{port.OutcomeFailed}, metrics.outcomes)
		require.Len(t, repo.savedAnalyses, 1)
	})

	t.Run("returns the stored analysis for a known contract", func(t *testing.T) {
		first := &mockAnalysisRepository{}
		stored, err := newRecalculateUseCase(first, nil, nil).Execute(context.Background(), validRequest())
		require.NoError(t, err)
		existing := first.savedAnalyses[0]

		repo := &mockAnalysisRepository{
			findByContractFunc: func(_ context.Context, number, bank string) (model.ContractAnalysis, error) {
				assert.Equal(t, "CCB-2024-000123", number)
				assert.Equal(t, "Banco Exemplo S.A.", bank)
				return existing, nil
			},
		}
		metrics := &mockMetrics{}
		resp, err := newRecalculateUseCase(repo, nil, metrics).Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.True(t, resp.AlreadyExisted)
		assert.Equal(t, stored.ID, resp.ID)
		assert.Empty(t, repo.savedAnalyses)
		assert.Equal(t, []string{port.OutcomeDuplicate}, metrics.outcomes)
	})

	t.Run("skips the duplicate lookup without a contract number", func(t *testing.T) {
		repo := &mockAnalysisRepository{
			findByContractFunc: func(context.Context, string, string) (model.ContractAnalysis, error) {
				t.Fatal("lookup must not run without a contract number")
				return model.ContractAnalysis{}, nil
			},
		}
		req := validRequest()
		req.ContractNumber = "  "

		_, err := newRecalculateUseCase(repo, nil, nil).Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Len(t, repo.savedAnalyses, 1)
	})

	t.Run("resolves a concurrent duplicate on save", func(t *testing.T) {
		var winner model.ContractAnalysis
		lookups := 0
		repo := &mockAnalysisRepository{
			findByContractFunc: func(context.Context, string, string) (model.ContractAnalysis, error) {
				lookups++
				if lookups == 1 {
					return model.ContractAnalysis{}, port.ErrAnalysisNotFound
				}
				return winner, nil
			},
			saveFunc: func(_ context.Context, a model.ContractAnalysis) error {
				winner = model.ReconstructContractAnalysis(a.ID(), a.Terms(), a.Report(), a.Validation(), a.CreatedAt())
				return port.ErrAnalysisExists
			},
		}
		metrics := &mockMetrics{}

		resp, err := newRecalculateUseCase(repo, nil, metrics).Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.True(t, resp.AlreadyExisted)
		assert.Equal(t, winner.ID().String(), resp.ID)
		assert.Equal(t, []string{port.OutcomeDuplicate}, metrics.outcomes)
	})

	t.Run("fails when the lookup fails", func(t *testing.T) {
		repo := &mockAnalysisRepository{
			findByContractFunc: func(context.Context, string, string) (model.ContractAnalysis, error) {
				return model.ContractAnalysis{}, errors.New("connection refused")
			},
		}

		_, err := newRecalculateUseCase(repo, nil, nil).Execute(context.Background(), validRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find existing analysis")
	})

	t.Run("fails when save fails", func(t *testing.T) {
		metrics := &mockMetrics{}
		repo := &mockAnalysisRepository{
			saveFunc: func(context.Context, model.ContractAnalysis) error {
				return errors.New("disk full")
			},
		}

		_, err := newRecalculateUseCase(repo, nil, metrics).Execute(context.Background(), validRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save analysis")
		assert.Empty(t, metrics.outcomes)
	})

	t.Run("rejects an unknown rate type", func(t *testing.T) {
		repo := &mockAnalysisRepository{}
		req := validRequest()
		req.RateType = "indexada"

		_, err := newRecalculateUseCase(repo, nil, nil).Execute(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
		assert.ErrorIs(t, err, valueobject.ErrInvalidRateType)
		assert.Empty(t, repo.savedAnalyses)
	})

	t.Run("rejects terms longer than the maximum", func(t *testing.T) {
		repo := &mockAnalysisRepository{}
		req := validRequest()
		req.InstallmentCount = ptr(10_000_000)

		_, err := newRecalculateUseCase(repo, nil, nil).Execute(context.Background(), req)

		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
		assert.Contains(t, err.Error(), "installment_count")
		assert.Empty(t, repo.savedAnalyses)
	})

	t.Run("accepts the extraction layer rate type labels", func(t *testing.T) {
		for _, label := range []string{"prefixada", "Pré-fixada", "posfixada", "pós-fixada"} {
			req := validRequest()
			req.ContractNumber = ""
			req.RateType = label

			resp, err := newRecalculateUseCase(&mockAnalysisRepository{}, nil, nil).Execute(context.Background(), req)

			require.NoError(t, err, label)
			assert.True(t, resp.Report.Success, label)
		}
	})

	t.Run("rejects an unknown reference index", func(t *testing.T) {
		req := validRequest()
		req.ReferenceIndex = "tr"

		_, err := newRecalculateUseCase(&mockAnalysisRepository{}, nil, nil).Execute(context.Background(), req)

		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})

	t.Run("adds the reference rate to a floating contract", func(t *testing.T) {
		rates := &mockRateProvider{
			fetchFunc: func(_ context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool) {
				assert.True(t, index.Equal(valueobject.ReferenceIndexPolicyRate))
				assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), date)
				return dec("12"), true
			},
		}
		req := validRequest()
		req.RateType = "pos"
		req.MonthlyRatePercent = ptr(dec("1.5"))
		req.InstallmentValue = nil

		resp, err := newRecalculateUseCase(&mockAnalysisRepository{}, rates, nil).Execute(context.Background(), req)

		require.NoError(t, err)
		require.True(t, resp.Report.Success)
		require.NotNil(t, resp.Report.ReferenceRateUsed)
		assert.Equal(t, "12", resp.Report.ReferenceRateUsed.String())
		assert.True(t, resp.Report.ResolvedMonthlyRate.GreaterThan(dec("1.5")))
	})

	t.Run("ignores unparseable dates", func(t *testing.T) {
		req := validRequest()
		req.FirstDueDate = "10 de fevereiro"
		req.ContractDate = "ontem"

		resp, err := newRecalculateUseCase(&mockAnalysisRepository{}, nil, nil).Execute(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Report.Success)
		assert.Equal(t, "2024-07-15", resp.Report.ContractingDate)
	})
}
