package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/pkg/auth"
)

const (
	maxBodyBytes = 1 << 20
	// MaxBatchSize caps the contracts accepted by one batch request.
	MaxBatchSize = 200
)

// Recalculator is satisfied by *usecase.RecalculateContractUseCase.
type Recalculator interface {
	Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

// BatchRecalculator is satisfied by *usecase.BatchRecalculateUseCase.
type BatchRecalculator interface {
	Execute(ctx context.Context, req dto.BatchRecalculateRequest) (dto.BatchRecalculateResponse, error)
}

// AnalysisGetter is satisfied by *usecase.GetAnalysisUseCase.
type AnalysisGetter interface {
	Execute(ctx context.Context, id string) (dto.AnalysisResponse, error)
}

// SeriesGetter is satisfied by *usecase.GetReferenceSeriesUseCase.
type SeriesGetter interface {
	Execute(ctx context.Context, req dto.ReferenceSeriesRequest) (dto.ReferenceSeriesResponse, error)
}

// RecalculationHandler exposes recalculation use cases over HTTP.
type RecalculationHandler struct {
	recalculate Recalculator
	batch       BatchRecalculator
	getAnalysis AnalysisGetter
	getSeries   SeriesGetter
	logger      *slog.Logger
}

// NewRecalculationHandler creates the handler.
func NewRecalculationHandler(
	recalculate Recalculator,
	batch BatchRecalculator,
	getAnalysis AnalysisGetter,
	getSeries SeriesGetter,
	logger *slog.Logger,
) *RecalculationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecalculationHandler{
		recalculate: recalculate,
		batch:       batch,
		getAnalysis: getAnalysis,
		getSeries:   getSeries,
		logger:      logger,
	}
}

// RegisterRoutes attaches the API routes, each guarded by its scope.
func (h *RecalculationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /v1/recalculations", RequireScope(auth.ScopeRecalculationsWrite, http.HandlerFunc(h.handleRecalculate)))
	mux.Handle("POST /v1/recalculations/batch", RequireScope(auth.ScopeRecalculationsWrite, http.HandlerFunc(h.handleBatch)))
	mux.Handle("GET /v1/recalculations/{id}", RequireScope(auth.ScopeRecalculationsRead, http.HandlerFunc(h.handleGetAnalysis)))
	mux.Handle("GET /v1/reference-series/{series}", RequireScope(auth.ScopeReferenceSeriesRead, http.HandlerFunc(h.handleGetSeries)))
}

func (h *RecalculationHandler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req dto.RecalculateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.recalculate.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyExisted {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *RecalculationHandler) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRecalculateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Contracts) == 0 {
		writeError(w, http.StatusBadRequest, "contracts must not be empty")
		return
	}
	if len(req.Contracts) > MaxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d contracts per batch", MaxBatchSize))
		return
	}

	resp, err := h.batch.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecalculationHandler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getAnalysis.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecalculationHandler) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	req := dto.ReferenceSeriesRequest{Series: r.PathValue("series")}
	var err error
	if req.From, err = parseQueryDate(r, "from"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.To, err = parseQueryDate(r, "to"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.getSeries.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecalculationHandler) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, port.ErrAnalysisNotFound):
		writeError(w, http.StatusNotFound, "analysis not found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseQueryDate returns the zero time when the parameter is absent.
func parseQueryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return t, nil
}
