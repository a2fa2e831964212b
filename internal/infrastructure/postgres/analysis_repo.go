package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/pkg/events"
	pgutil "github.com/devflexlabs/flex-analise-backend/pkg/postgres"
)

const uniqueViolation = "23505"

// AnalysisRepo implements port.AnalysisRepository.
type AnalysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepo creates a new PostgreSQL-backed analysis repository.
func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// Save inserts the analysis and writes its domain events to the outbox in
// the same transaction.
func (r *AnalysisRepo) Save(ctx context.Context, analysis model.ContractAnalysis) error {
	terms, err := json.Marshal(toTermsRecord(analysis.Terms()))
	if err != nil {
		return fmt.Errorf("marshal terms: %w", err)
	}
	report, err := json.Marshal(toReportRecord(analysis.Report()))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	validation, err := json.Marshal(toValidationRecord(analysis.Validation()))
	if err != nil {
		return fmt.Errorf("marshal validation: %w", err)
	}
	entries, err := events.NewOutboxEntries(analysis.DomainEvents())
	if err != nil {
		return fmt.Errorf("build outbox entries: %w", err)
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		const insertSQL = `
			INSERT INTO contract_analyses (
				id, contract_number, bank_name, customer_document,
				success, valid, methodology,
				terms, report, validation, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		t := analysis.Terms()
		_, err := tx.Exec(ctx, insertSQL,
			analysis.ID(), t.ContractNumber(), t.BankName(), t.CustomerDocument(),
			analysis.Report().Success, analysis.Validation().Valid,
			analysis.Report().DetectedMethodology.String(),
			terms, report, validation, analysis.CreatedAt(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return port.ErrAnalysisExists
			}
			return fmt.Errorf("insert analysis: %w", err)
		}

		return insertOutbox(ctx, tx, entries)
	})
}

// FindByID retrieves an analysis by its identifier.
func (r *AnalysisRepo) FindByID(ctx context.Context, id uuid.UUID) (model.ContractAnalysis, error) {
	const query = `
		SELECT id, terms, report, validation, created_at
		FROM contract_analyses
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// FindByContract retrieves the analysis stored for a contract number at a bank.
func (r *AnalysisRepo) FindByContract(ctx context.Context, contractNumber, bankName string) (model.ContractAnalysis, error) {
	if contractNumber == "" {
		return model.ContractAnalysis{}, port.ErrAnalysisNotFound
	}
	const query = `
		SELECT id, terms, report, validation, created_at
		FROM contract_analyses
		WHERE contract_number = $1 AND bank_name = $2
	`
	return r.scanOne(ctx, query, contractNumber, bankName)
}

func (r *AnalysisRepo) scanOne(ctx context.Context, query string, args ...any) (model.ContractAnalysis, error) {
	var (
		id                            uuid.UUID
		termsRaw, reportRaw, validRaw []byte
		createdAt                     time.Time
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(&id, &termsRaw, &reportRaw, &validRaw, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ContractAnalysis{}, port.ErrAnalysisNotFound
	}
	if err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("query analysis: %w", err)
	}

	var (
		tr termsRecord
		rr reportRecord
		vr validationRecord
	)
	if err := json.Unmarshal(termsRaw, &tr); err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("decode terms of %s: %w", id, err)
	}
	if err := json.Unmarshal(reportRaw, &rr); err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("decode report of %s: %w", id, err)
	}
	if err := json.Unmarshal(validRaw, &vr); err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("decode validation of %s: %w", id, err)
	}

	terms, err := tr.toModel()
	if err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("analysis %s: %w", id, err)
	}
	report, err := rr.toModel()
	if err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("analysis %s: %w", id, err)
	}
	validation, err := vr.toModel()
	if err != nil {
		return model.ContractAnalysis{}, fmt.Errorf("analysis %s: %w", id, err)
	}

	return model.ReconstructContractAnalysis(id, terms, report, validation, createdAt.UTC()), nil
}
