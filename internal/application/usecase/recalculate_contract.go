package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/service"
)

var tracer = otel.Tracer("recalc-usecase")

// RecalculateContractUseCase recalculates extracted contract terms,
// validates the outcome and stores the analysis with its events.
type RecalculateContractUseCase struct {
	repo         port.AnalysisRepository
	recalculator *service.ContractRecalculator
	validator    service.ContractValidator
	metrics      port.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewRecalculateContractUseCase wires dependencies. metrics may be nil.
func NewRecalculateContractUseCase(
	repo port.AnalysisRepository,
	recalculator *service.ContractRecalculator,
	validator service.ContractValidator,
	metrics port.Metrics,
	logger *slog.Logger,
) *RecalculateContractUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecalculateContractUseCase{
		repo:         repo,
		recalculator: recalculator,
		validator:    validator,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Execute returns the stored analysis of the contract. A contract whose
// number and bank already have an analysis is not recalculated; the stored
// one is returned with AlreadyExisted set.
func (uc *RecalculateContractUseCase) Execute(ctx context.Context, req dto.RecalculateRequest) (resp dto.AnalysisResponse, err error) {
	ctx, span := tracer.Start(ctx, "RecalculateContract")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("contract.number", req.ContractNumber),
		attribute.String("contract.bank", req.BankName),
	)

	terms, err := toTerms(req)
	if err != nil {
		return dto.AnalysisResponse{}, err
	}

	// 1. Reuse a stored analysis of the same contract.
	if existing, found, err := uc.findExisting(ctx, terms); err != nil {
		return dto.AnalysisResponse{}, err
	} else if found {
		uc.record(ctx, port.OutcomeDuplicate)
		return toAnalysisResponse(existing, true), nil
	}

	// 2. Recalculate and validate.
	report := uc.recalculator.Recalculate(ctx, terms)
	validation := uc.validator.Validate(report)
	analysis := model.NewContractAnalysis(terms, report, validation, uc.now().UTC())
	span.SetAttributes(
		attribute.Bool("recalculation.success", report.Success),
		attribute.Bool("validation.valid", validation.Valid),
	)

	// 3. Persist analysis and events atomically.
	if err := uc.repo.Save(ctx, analysis); err != nil {
		if errors.Is(err, port.ErrAnalysisExists) {
			existing, findErr := uc.repo.FindByContract(ctx, terms.ContractNumber(), terms.BankName())
			if findErr == nil {
				uc.record(ctx, port.OutcomeDuplicate)
				return toAnalysisResponse(existing, true), nil
			}
		}
		uc.logger.ErrorContext(ctx, "failed to save analysis",
			"analysis_id", analysis.ID(),
			"contract_number", terms.ContractNumber(),
			"error", err,
		)
		return dto.AnalysisResponse{}, fmt.Errorf("save analysis: %w", err)
	}

	outcome := port.OutcomeSuccess
	if !report.Success {
		outcome = port.OutcomeFailed
	}
	uc.record(ctx, outcome)
	if !validation.Valid && uc.metrics != nil {
		uc.metrics.RecordIrregular(ctx)
	}

	uc.logger.InfoContext(ctx, "contract recalculated",
		"analysis_id", analysis.ID(),
		"contract_number", terms.ContractNumber(),
		"success", report.Success,
		"valid", validation.Valid,
		"methodology", report.DetectedMethodology.String(),
	)
	return toAnalysisResponse(analysis, false), nil
}

func (uc *RecalculateContractUseCase) findExisting(ctx context.Context, terms model.ContractTerms) (model.ContractAnalysis, bool, error) {
	if terms.ContractNumber() == "" {
		return model.ContractAnalysis{}, false, nil
	}
	existing, err := uc.repo.FindByContract(ctx, terms.ContractNumber(), terms.BankName())
	switch {
	case err == nil:
		return existing, true, nil
	case errors.Is(err, port.ErrAnalysisNotFound):
		return model.ContractAnalysis{}, false, nil
	default:
		return model.ContractAnalysis{}, false, fmt.Errorf("find existing analysis: %w", err)
	}
}

func (uc *RecalculateContractUseCase) record(ctx context.Context, outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordRecalculation(ctx, outcome)
	}
}
