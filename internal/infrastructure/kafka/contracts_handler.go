package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	pkgkafka "github.com/devflexlabs/flex-analise-backend/pkg/kafka"
)

// Recalculator is satisfied by *usecase.RecalculateContractUseCase.
type Recalculator interface {
	Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

// ContractsHandler consumes contract terms published by the extraction
// pipeline and recalculates each one.
type ContractsHandler struct {
	recalculator Recalculator
	logger       *slog.Logger
}

// NewContractsHandler creates a handler.
func NewContractsHandler(recalculator Recalculator, logger *slog.Logger) *ContractsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractsHandler{recalculator: recalculator, logger: logger}
}

// Handle processes one message. Malformed payloads and rejected terms are
// logged and dropped; only infrastructure failures are returned.
func (h *ContractsHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.RecalculateRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed contract message",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	resp, err := h.recalculator.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			h.logger.WarnContext(ctx, "dropping invalid contract terms",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"contract_number", req.ContractNumber,
				"error", err,
			)
			return nil
		}
		return fmt.Errorf("recalculate contract %q: %w", req.ContractNumber, err)
	}

	h.logger.InfoContext(ctx, "contract message processed",
		"analysis_id", resp.ID,
		"contract_number", resp.ContractNumber,
		"already_existed", resp.AlreadyExisted,
		"valid", resp.Validation.Valid,
	)
	return nil
}
