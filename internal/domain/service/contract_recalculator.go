package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// Input errors reported by the recalculator. They surface as report.Error,
// never as returned errors.
var (
	ErrPrincipalNotPositive = errors.New("principal must be positive")
	ErrInvalidInstallments  = errors.New("installment count must be a positive integer")
	ErrTooManyInstallments  = fmt.Errorf("installment count must not exceed %d", model.MaxInstallments)
	ErrRateUnavailable      = errors.New("rate unavailable")
)

const displayDate = "02/01/2006"

// ContractRecalculator recomputes a contract under both amortization methods
// and compares the result with the stated terms.
type ContractRecalculator struct {
	rates    port.ReferenceRateProvider
	detector MethodologyDetector
	now      func() time.Time
}

// NewContractRecalculator wires dependencies. rates may be nil, in which
// case floating-rate contracts always fall back to the stated rate.
func NewContractRecalculator(rates port.ReferenceRateProvider, detector MethodologyDetector, now func() time.Time) *ContractRecalculator {
	if now == nil {
		now = time.Now
	}
	return &ContractRecalculator{rates: rates, detector: detector, now: now}
}

// Recalculate always returns a report. Input faults and unexpected panics
// during computation produce Success=false with the cause in Error.
func (r *ContractRecalculator) Recalculate(ctx context.Context, terms model.ContractTerms) (report model.RecalculationReport) {
	defer func() {
		if rec := recover(); rec != nil {
			report = model.FailedReport(fmt.Sprintf("computation failed: %v", rec))
		}
	}()

	principal := terms.Principal()
	if !principal.IsPositive() {
		return model.FailedReport(ErrPrincipalNotPositive.Error())
	}
	count, ok := terms.InstallmentCount()
	if !ok || count <= 0 {
		return model.FailedReport(ErrInvalidInstallments.Error())
	}
	if count > model.MaxInstallments {
		return model.FailedReport(ErrTooManyInstallments.Error())
	}

	contractDate, firstDue := r.resolveDates(terms)
	stated, hasStated := terms.MonthlyRatePercent()

	report = model.RecalculationReport{ContractingDate: contractDate}
	if hasStated {
		report.ContractMonthlyRate = decimal.NewNullDecimal(stated)
	}

	effective := decimal.Zero
	if terms.RateType().IsFloating() {
		effective = r.resolveFloating(ctx, terms, contractDate, &report)
	} else if hasStated {
		effective = stated
	}
	if !effective.IsPositive() {
		failed := model.FailedReport(ErrRateUnavailable.Error())
		failed.ReferenceRateWarning = report.ReferenceRateWarning
		return failed
	}
	report.ResolvedMonthlyRate = effective

	report.Annuity = model.ComputeAnnuity(principal, effective, count, firstDue)
	report.ConstantAmortization = model.ComputeConstantAmortization(principal, effective, count, firstDue)

	if installment, ok := terms.InstallmentValue(); ok && installment.IsPositive() {
		annuityFirst := report.Annuity.PeriodicPayment.Round(2)
		constantFirst := report.ConstantAmortization.FirstPayment.Round(2)

		report.StatedInstallment = decimal.NewNullDecimal(installment)
		report.DetectedMethodology = r.detector.Classify(annuityFirst, constantFirst, installment)
		report.StatedVsAnnuityDiff = decimal.NewNullDecimal(annuityFirst.Sub(installment).Abs())
		report.StatedVsConstantDiff = decimal.NewNullDecimal(constantFirst.Sub(installment).Abs())
	}

	if report.ReferenceRateUsed.Valid && hasStated && stated.IsPositive() {
		annual := model.AnnualFromMonthly(stated)
		report.RateDiffAnnualized = decimal.NewNullDecimal(annual.Sub(report.ReferenceRateUsed.Decimal).Abs())
	}

	report.Success = true
	return report
}

// resolveDates returns the contracting date (explicit, else first due date,
// else today) and the first due date (explicit, else contracting date).
func (r *ContractRecalculator) resolveDates(terms model.ContractTerms) (contractDate, firstDue time.Time) {
	first, hasFirst := terms.FirstDueDate()
	switch d, ok := terms.ContractDate(); {
	case ok:
		contractDate = d
	case hasFirst:
		contractDate = first
	default:
		y, m, day := r.now().Date()
		contractDate = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	if hasFirst {
		return contractDate, first
	}
	return contractDate, contractDate
}

// resolveFloating derives the effective monthly rate of a floating contract:
// the monthly equivalent of the reference plus the stated spread. When the
// reference is unavailable the stated rate is used as an estimate.
func (r *ContractRecalculator) resolveFloating(
	ctx context.Context,
	terms model.ContractTerms,
	contractDate time.Time,
	report *model.RecalculationReport,
) decimal.Decimal {
	index := terms.ReferenceIndex()
	label := strings.ToUpper(indexLabel(index))
	spread, hasSpread := terms.MonthlyRatePercent()

	var (
		reference decimal.Decimal
		found     bool
	)
	if r.rates != nil {
		reference, found = r.rates.FetchReferenceRate(ctx, index, contractDate)
	}

	if !found || !reference.IsPositive() {
		report.ReferenceRateWarning = fmt.Sprintf(
			"could not fetch %s from BACEN for %s; using the contract rate as an estimate",
			label, contractDate.Format(displayDate),
		)
		if hasSpread {
			return spread
		}
		return decimal.Zero
	}

	monthly := model.MonthlyFromAnnual(reference)
	report.ReferenceRateUsed = decimal.NewNullDecimal(reference)
	report.ReferenceRateMonthly = decimal.NewNullDecimal(monthly)
	report.ReferenceRateWarning = fmt.Sprintf(
		"floating rate based on %s for the period; the final amount is only known once the reference period closes. Using %s of %s: %s%% p.a.",
		label, label, contractDate.Format(displayDate), reference.StringFixed(2),
	)

	if hasSpread {
		return monthly.Add(spread)
	}
	return monthly
}

func indexLabel(index valueobject.ReferenceIndex) string {
	switch {
	case index.Equal(valueobject.ReferenceIndexInterbankRate):
		return "cdi"
	default:
		return "selic"
	}
}
