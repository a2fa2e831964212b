package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// RecalculationReport is the comparison produced for one contract.
// When Success is false only Error is meaningful.
type RecalculationReport struct {
	Success bool
	Error   string

	ContractingDate      time.Time
	ResolvedMonthlyRate  decimal.Decimal
	ContractMonthlyRate  decimal.NullDecimal
	ReferenceRateUsed    decimal.NullDecimal // annual %
	ReferenceRateMonthly decimal.NullDecimal
	ReferenceRateWarning string

	StatedInstallment   decimal.NullDecimal
	DetectedMethodology valueobject.Methodology

	Annuity              AmortizationSchedule
	ConstantAmortization AmortizationSchedule

	StatedVsAnnuityDiff  decimal.NullDecimal
	StatedVsConstantDiff decimal.NullDecimal
	RateDiffAnnualized   decimal.NullDecimal
}

// FailedReport builds an unsuccessful report carrying msg.
func FailedReport(msg string) RecalculationReport {
	return RecalculationReport{
		Success:              false,
		Error:                msg,
		Annuity:              emptySchedule(valueobject.MethodologyAnnuity),
		ConstantAmortization: emptySchedule(valueobject.MethodologyConstantAmortization),
	}
}

// ValidationResult lists the findings raised against a recalculation report.
type ValidationResult struct {
	Valid               bool
	Irregularities      []string
	Advisories          []string
	DetectedMethodology valueobject.Methodology
}

// HasIrregularities reports whether any irregularity was found.
func (v ValidationResult) HasIrregularities() bool { return len(v.Irregularities) > 0 }
