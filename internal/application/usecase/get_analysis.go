package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
)

// GetAnalysisUseCase retrieves a stored analysis by ID.
type GetAnalysisUseCase struct {
	repo port.AnalysisRepository
}

// NewGetAnalysisUseCase wires dependencies.
func NewGetAnalysisUseCase(repo port.AnalysisRepository) *GetAnalysisUseCase {
	return &GetAnalysisUseCase{repo: repo}
}

// Execute returns the analysis with the given ID.
func (uc *GetAnalysisUseCase) Execute(ctx context.Context, id string) (dto.AnalysisResponse, error) {
	analysisID, err := uuid.Parse(id)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("%w: analysis id %q", ErrInvalidRequest, id)
	}
	analysis, err := uc.repo.FindByID(ctx, analysisID)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("find analysis: %w", err)
	}
	return toAnalysisResponse(analysis, false), nil
}
