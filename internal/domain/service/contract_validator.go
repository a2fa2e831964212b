package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/pkg/money"
)

// DefaultValidationTolerance is the monetary divergence (R$ 1.00) tolerated
// between stated and recomputed installments.
var DefaultValidationTolerance = decimal.NewFromInt(1)

// ContractValidator turns a recalculation report into findings.
//
// Only the annuity divergence marks a contract invalid; a constant
// amortization divergence is advisory because the contract may simply use
// the other method.
type ContractValidator struct {
	tolerance decimal.Decimal
}

// NewContractValidator creates a validator. A non-positive tolerance falls
// back to DefaultValidationTolerance.
func NewContractValidator(tolerance decimal.Decimal) ContractValidator {
	if !tolerance.IsPositive() {
		tolerance = DefaultValidationTolerance
	}
	return ContractValidator{tolerance: tolerance}
}

// Validate never fails; a failed report only limits which checks run.
func (v ContractValidator) Validate(report model.RecalculationReport) model.ValidationResult {
	result := model.ValidationResult{
		Valid:          true,
		Irregularities: []string{},
		Advisories:     []string{},
	}

	if !report.Success {
		result.Advisories = append(result.Advisories, fmt.Sprintf("could not recalculate: %s", report.Error))
		return result
	}

	if report.StatedInstallment.Valid {
		stated := report.StatedInstallment.Decimal

		if diff := report.StatedVsAnnuityDiff; diff.Valid && v.exceeds(diff.Decimal) {
			result.Irregularities = append(result.Irregularities, fmt.Sprintf(
				"installment divergence: contract states %s but the Price method yields %s (difference of %s)",
				brl(stated), brl(report.Annuity.PeriodicPayment), brl(diff.Decimal),
			))
			result.Valid = false
		}

		if diff := report.StatedVsConstantDiff; diff.Valid && v.exceeds(diff.Decimal) {
			result.Advisories = append(result.Advisories, fmt.Sprintf(
				"if the contract uses SAC, the first installment should be %s (difference of %s)",
				brl(report.ConstantAmortization.FirstPayment), brl(diff.Decimal),
			))
		}
	}

	if report.DetectedMethodology.IsZero() {
		result.Advisories = append(result.Advisories, "could not determine the amortization method (Price or SAC)")
	} else {
		result.DetectedMethodology = report.DetectedMethodology
	}

	return result
}

// exceeds compares at cent precision so that a divergence of exactly the
// tolerance is accepted.
func (v ContractValidator) exceeds(diff decimal.Decimal) bool {
	return diff.Round(2).GreaterThan(v.tolerance)
}

func brl(amount decimal.Decimal) string {
	return money.New(amount, money.BRL).Display()
}
