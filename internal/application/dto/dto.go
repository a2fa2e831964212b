package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RecalculateRequest carries extracted contract terms. Every field except
// Principal is optional; dates are YYYY-MM-DD or DD/MM/YYYY.
type RecalculateRequest struct {
	ContractNumber     string           `json:"contract_number,omitempty"`
	BankName           string           `json:"bank_name,omitempty"`
	CustomerDocument   string           `json:"customer_document,omitempty"`
	Principal          decimal.Decimal  `json:"principal"`
	MonthlyRatePercent *decimal.Decimal `json:"monthly_rate_percent,omitempty"`
	InstallmentCount   *int             `json:"installment_count,omitempty"`
	InstallmentValue   *decimal.Decimal `json:"installment_value,omitempty"`
	FirstDueDate       string           `json:"first_due_date,omitempty"`
	ContractDate       string           `json:"contract_date,omitempty"`
	RateType           string           `json:"rate_type,omitempty"`
	ReferenceIndex     string           `json:"reference_index,omitempty"`
}

// BatchRecalculateRequest carries several independent contracts.
type BatchRecalculateRequest struct {
	Contracts []RecalculateRequest `json:"contracts"`
}

// ReferenceSeriesRequest selects a window of a central-bank series.
type ReferenceSeriesRequest struct {
	Series string    `json:"series"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AnalysisResponse is the external representation of a stored analysis.
type AnalysisResponse struct {
	ID               string             `json:"id"`
	AlreadyExisted   bool               `json:"already_existed"`
	ContractNumber   string             `json:"contract_number,omitempty"`
	BankName         string             `json:"bank_name,omitempty"`
	CustomerDocument string             `json:"customer_document,omitempty"`
	Report           ReportResponse     `json:"report"`
	Validation       ValidationResponse `json:"validation"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ReportResponse mirrors the recalculation report. Decimals are rounded to
// two places; absent values are omitted.
type ReportResponse struct {
	Success              bool             `json:"success"`
	Error                string           `json:"error,omitempty"`
	ContractingDate      string           `json:"contracting_date,omitempty"`
	ResolvedMonthlyRate  decimal.Decimal  `json:"resolved_monthly_rate"`
	ContractMonthlyRate  *decimal.Decimal `json:"contract_monthly_rate,omitempty"`
	ReferenceRateUsed    *decimal.Decimal `json:"reference_rate_used,omitempty"`
	ReferenceRateMonthly *decimal.Decimal `json:"reference_rate_monthly,omitempty"`
	ReferenceRateWarning string           `json:"reference_rate_warning,omitempty"`
	StatedInstallment    *decimal.Decimal `json:"stated_installment,omitempty"`
	DetectedMethodology  string           `json:"detected_methodology,omitempty"`
	Annuity              ScheduleResponse `json:"annuity"`
	ConstantAmortization ScheduleResponse `json:"constant_amortization"`
	StatedVsAnnuityDiff  *decimal.Decimal `json:"stated_vs_annuity_diff,omitempty"`
	StatedVsConstantDiff *decimal.Decimal `json:"stated_vs_constant_diff,omitempty"`
	RateDiffAnnualized   *decimal.Decimal `json:"rate_diff_annualized,omitempty"`
}

// ScheduleResponse is one amortization schedule.
type ScheduleResponse struct {
	Method          string                `json:"method"`
	Label           string                `json:"label"`
	PeriodicPayment decimal.Decimal       `json:"periodic_payment"`
	FirstPayment    decimal.Decimal       `json:"first_payment"`
	LastPayment     decimal.Decimal       `json:"last_payment"`
	TotalPaid       decimal.Decimal       `json:"total_paid"`
	TotalInterest   decimal.Decimal       `json:"total_interest"`
	Entries         []InstallmentResponse `json:"entries"`
}

// InstallmentResponse is one schedule row.
type InstallmentResponse struct {
	Number           int             `json:"number"`
	DueDate          string          `json:"due_date,omitempty"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// ValidationResponse lists the findings for a contract.
type ValidationResponse struct {
	Valid               bool     `json:"valid"`
	Irregularities      []string `json:"irregularities"`
	Advisories          []string `json:"advisories"`
	DetectedMethodology string   `json:"detected_methodology,omitempty"`
}

// BatchItemResponse is the outcome of one batch entry. Exactly one of
// Analysis and Error is set.
type BatchItemResponse struct {
	Index    int               `json:"index"`
	Analysis *AnalysisResponse `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// BatchRecalculateResponse keeps the order of the request.
type BatchRecalculateResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// RatePointResponse is one series observation.
type RatePointResponse struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// ReferenceSeriesResponse is a window of a central-bank series.
type ReferenceSeriesResponse struct {
	Series string              `json:"series"`
	Code   int                 `json:"code"`
	From   string              `json:"from"`
	To     string              `json:"to"`
	Points []RatePointResponse `json:"points"`
}
