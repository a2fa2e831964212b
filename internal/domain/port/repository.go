package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

var (
	// ErrAnalysisNotFound is returned by repositories when no analysis matches.
	ErrAnalysisNotFound = errors.New("contract analysis not found")
	// ErrAnalysisExists is returned by Save when the contract number and bank
	// already have a stored analysis.
	ErrAnalysisExists = errors.New("contract analysis already exists")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// AnalysisRepository persists contract analyses together with their pending
// domain events.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis model.ContractAnalysis) error
	FindByID(ctx context.Context, id uuid.UUID) (model.ContractAnalysis, error)
	FindByContract(ctx context.Context, contractNumber, bankName string) (model.ContractAnalysis, error)
}

// ---------------------------------------------------------------------------
// External data ports
// ---------------------------------------------------------------------------

// ReferenceRateProvider resolves the annual percentage of a reference index
// for a date. A false result means no usable observation exists; callers
// treat it as missing data, never as a failure.
type ReferenceRateProvider interface {
	FetchReferenceRate(ctx context.Context, index valueobject.ReferenceIndex, date time.Time) (decimal.Decimal, bool)
}

// RateSeriesSource reads raw central-bank series.
type RateSeriesSource interface {
	FetchRate(ctx context.Context, series valueobject.Series, date time.Time) (decimal.Decimal, bool)
	FetchHistory(ctx context.Context, series valueobject.Series, from, to time.Time) []model.RatePoint
}
