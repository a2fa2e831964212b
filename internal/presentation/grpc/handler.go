package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
)

// Recalculator is satisfied by *usecase.RecalculateContractUseCase.
type Recalculator interface {
	Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

// AnalysisGetter is satisfied by *usecase.GetAnalysisUseCase.
type AnalysisGetter interface {
	Execute(ctx context.Context, id string) (dto.AnalysisResponse, error)
}

// RecalculationHandler implements RecalculationServiceServer.
type RecalculationHandler struct {
	UnimplementedRecalculationServiceServer
	recalculate Recalculator
	getAnalysis AnalysisGetter
	logger      *slog.Logger
}

// NewRecalculationHandler creates a new handler with its use-case dependencies.
func NewRecalculationHandler(recalculate Recalculator, getAnalysis AnalysisGetter, logger *slog.Logger) *RecalculationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecalculationHandler{recalculate: recalculate, getAnalysis: getAnalysis, logger: logger}
}

// Recalculate recalculates a contract and stores the analysis.
func (h *RecalculationHandler) Recalculate(ctx context.Context, req *RecalculateRequest) (*AnalysisReply, error) {
	resp, err := h.recalculate.Execute(ctx, req.RecalculateRequest)
	if err != nil {
		return nil, h.toStatus(ctx, "Recalculate", err)
	}
	return &AnalysisReply{Analysis: resp}, nil
}

// GetAnalysis returns a stored analysis.
func (h *RecalculationHandler) GetAnalysis(ctx context.Context, req *GetAnalysisRequest) (*AnalysisReply, error) {
	resp, err := h.getAnalysis.Execute(ctx, req.ID)
	if err != nil {
		return nil, h.toStatus(ctx, "GetAnalysis", err)
	}
	return &AnalysisReply{Analysis: resp}, nil
}

func (h *RecalculationHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrAnalysisNotFound):
		return status.Error(codes.NotFound, "analysis not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
