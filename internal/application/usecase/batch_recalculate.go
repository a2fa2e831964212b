package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
)

// DefaultBatchConcurrency bounds parallel recalculations when none is configured.
const DefaultBatchConcurrency = 4

// contractRecalculator is the single-contract step a batch fans out to.
type contractRecalculator interface {
	Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

// BatchRecalculateUseCase recalculates independent contracts in parallel.
// One failing contract never aborts the others.
type BatchRecalculateUseCase struct {
	single      contractRecalculator
	concurrency int
}

// NewBatchRecalculateUseCase wires dependencies.
func NewBatchRecalculateUseCase(single contractRecalculator, concurrency int) *BatchRecalculateUseCase {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchRecalculateUseCase{single: single, concurrency: concurrency}
}

// Execute returns one result per contract in request order.
func (uc *BatchRecalculateUseCase) Execute(ctx context.Context, req dto.BatchRecalculateRequest) (dto.BatchRecalculateResponse, error) {
	results := make([]dto.BatchItemResponse, len(req.Contracts))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, contract := range req.Contracts {
		g.Go(func() error {
			results[i].Index = i
			if err := ctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			resp, err := uc.single.Execute(ctx, contract)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Analysis = &resp
			return nil
		})
	}
	_ = g.Wait()

	out := dto.BatchRecalculateResponse{Results: results}
	for _, r := range results {
		if r.Analysis != nil {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out, nil
}
