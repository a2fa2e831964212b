package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
)

func TestGetAnalysis_Execute(t *testing.T) {
	t.Run("returns a stored analysis", func(t *testing.T) {
		id := uuid.New()
		createdAt := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
		stored := model.ReconstructContractAnalysis(id,
			model.NewContractTerms(model.ContractTermsParams{ContractNumber: "CCB-1", BankName: "Banco"}),
			model.FailedReport("principal must be positive"),
			model.ValidationResult{Valid: true, Advisories: []string{"could not recalculate"}},
			createdAt,
		)
		repo := &mockAnalysisRepository{
			findByIDFunc: func(_ context.Context, got uuid.UUID) (model.ContractAnalysis, error) {
				assert.Equal(t, id, got)
				return stored, nil
			},
		}

		resp, err := usecase.NewGetAnalysisUseCase(repo).Execute(context.Background(), id.String())

		require.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "CCB-1", resp.ContractNumber)
		assert.False(t, resp.Report.Success)
		assert.Equal(t, createdAt, resp.CreatedAt)
		assert.Equal(t, []string{}, resp.Validation.Irregularities)
	})

	t.Run("wraps not found", func(t *testing.T) {
		_, err := usecase.NewGetAnalysisUseCase(&mockAnalysisRepository{}).Execute(context.Background(), uuid.NewString())

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrAnalysisNotFound)
		assert.Contains(t, err.Error(), "find analysis")
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		_, err := usecase.NewGetAnalysisUseCase(&mockAnalysisRepository{}).Execute(context.Background(), "not-a-uuid")

		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})
}
