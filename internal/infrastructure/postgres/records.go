package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// Stored JSON documents. Field names are part of the schema; rename with a
// migration.

type termsRecord struct {
	ContractNumber     string           `json:"contract_number,omitempty"`
	BankName           string           `json:"bank_name,omitempty"`
	CustomerDocument   string           `json:"customer_document,omitempty"`
	Principal          decimal.Decimal  `json:"principal"`
	MonthlyRatePercent *decimal.Decimal `json:"monthly_rate_percent,omitempty"`
	InstallmentCount   *int             `json:"installment_count,omitempty"`
	InstallmentValue   *decimal.Decimal `json:"installment_value,omitempty"`
	FirstDueDate       *time.Time       `json:"first_due_date,omitempty"`
	ContractDate       *time.Time       `json:"contract_date,omitempty"`
	RateType           string           `json:"rate_type"`
	ReferenceIndex     string           `json:"reference_index"`
}

type entryRecord struct {
	Number           int             `json:"n"`
	DueDate          time.Time       `json:"due"`
	Payment          decimal.Decimal `json:"pmt"`
	Interest         decimal.Decimal `json:"int"`
	Principal        decimal.Decimal `json:"amort"`
	RemainingBalance decimal.Decimal `json:"bal"`
}

type scheduleRecord struct {
	Method          string          `json:"method"`
	PeriodicPayment decimal.Decimal `json:"periodic_payment"`
	FirstPayment    decimal.Decimal `json:"first_payment"`
	LastPayment     decimal.Decimal `json:"last_payment"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	Entries         []entryRecord   `json:"entries"`
}

type reportRecord struct {
	Success              bool                `json:"success"`
	Error                string              `json:"error,omitempty"`
	ContractingDate      time.Time           `json:"contracting_date"`
	ResolvedMonthlyRate  decimal.Decimal     `json:"resolved_monthly_rate"`
	ContractMonthlyRate  decimal.NullDecimal `json:"contract_monthly_rate"`
	ReferenceRateUsed    decimal.NullDecimal `json:"reference_rate_used"`
	ReferenceRateMonthly decimal.NullDecimal `json:"reference_rate_monthly"`
	ReferenceRateWarning string              `json:"reference_rate_warning,omitempty"`
	StatedInstallment    decimal.NullDecimal `json:"stated_installment"`
	DetectedMethodology  string              `json:"detected_methodology,omitempty"`
	Annuity              scheduleRecord      `json:"annuity"`
	ConstantAmortization scheduleRecord      `json:"constant_amortization"`
	StatedVsAnnuityDiff  decimal.NullDecimal `json:"stated_vs_annuity_diff"`
	StatedVsConstantDiff decimal.NullDecimal `json:"stated_vs_constant_diff"`
	RateDiffAnnualized   decimal.NullDecimal `json:"rate_diff_annualized"`
}

type validationRecord struct {
	Valid               bool     `json:"valid"`
	Irregularities      []string `json:"irregularities"`
	Advisories          []string `json:"advisories"`
	DetectedMethodology string   `json:"detected_methodology,omitempty"`
}

func toTermsRecord(t model.ContractTerms) termsRecord {
	r := termsRecord{
		ContractNumber:   t.ContractNumber(),
		BankName:         t.BankName(),
		CustomerDocument: t.CustomerDocument(),
		Principal:        t.Principal(),
		RateType:         t.RateType().String(),
		ReferenceIndex:   t.ReferenceIndex().String(),
	}
	if v, ok := t.MonthlyRatePercent(); ok {
		r.MonthlyRatePercent = &v
	}
	if v, ok := t.InstallmentCount(); ok {
		r.InstallmentCount = &v
	}
	if v, ok := t.InstallmentValue(); ok {
		r.InstallmentValue = &v
	}
	if v, ok := t.FirstDueDate(); ok {
		r.FirstDueDate = &v
	}
	if v, ok := t.ContractDate(); ok {
		r.ContractDate = &v
	}
	return r
}

func (r termsRecord) toModel() (model.ContractTerms, error) {
	rateType, err := valueobject.NewRateType(r.RateType)
	if err != nil {
		return model.ContractTerms{}, fmt.Errorf("terms: %w", err)
	}
	index, err := valueobject.NewReferenceIndex(r.ReferenceIndex)
	if err != nil {
		return model.ContractTerms{}, fmt.Errorf("terms: %w", err)
	}
	return model.NewContractTerms(model.ContractTermsParams{
		ContractNumber:     r.ContractNumber,
		BankName:           r.BankName,
		CustomerDocument:   r.CustomerDocument,
		Principal:          r.Principal,
		MonthlyRatePercent: r.MonthlyRatePercent,
		InstallmentCount:   r.InstallmentCount,
		InstallmentValue:   r.InstallmentValue,
		FirstDueDate:       r.FirstDueDate,
		ContractDate:       r.ContractDate,
		RateType:           rateType,
		ReferenceIndex:     index,
	}), nil
}

func toScheduleRecord(s model.AmortizationSchedule) scheduleRecord {
	entries := make([]entryRecord, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = entryRecord(e)
	}
	return scheduleRecord{
		Method:          s.Method.String(),
		PeriodicPayment: s.PeriodicPayment,
		FirstPayment:    s.FirstPayment,
		LastPayment:     s.LastPayment,
		TotalPaid:       s.TotalPaid,
		TotalInterest:   s.TotalInterest,
		Entries:         entries,
	}
}

func (r scheduleRecord) toModel() (model.AmortizationSchedule, error) {
	method, err := methodologyOrZero(r.Method)
	if err != nil {
		return model.AmortizationSchedule{}, err
	}
	entries := make([]model.InstallmentEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = model.InstallmentEntry(e)
	}
	return model.AmortizationSchedule{
		Method:          method,
		PeriodicPayment: r.PeriodicPayment,
		FirstPayment:    r.FirstPayment,
		LastPayment:     r.LastPayment,
		TotalPaid:       r.TotalPaid,
		TotalInterest:   r.TotalInterest,
		Entries:         entries,
	}, nil
}

func toReportRecord(r model.RecalculationReport) reportRecord {
	return reportRecord{
		Success:              r.Success,
		Error:                r.Error,
		ContractingDate:      r.ContractingDate,
		ResolvedMonthlyRate:  r.ResolvedMonthlyRate,
		ContractMonthlyRate:  r.ContractMonthlyRate,
		ReferenceRateUsed:    r.ReferenceRateUsed,
		ReferenceRateMonthly: r.ReferenceRateMonthly,
		ReferenceRateWarning: r.ReferenceRateWarning,
		StatedInstallment:    r.StatedInstallment,
		DetectedMethodology:  r.DetectedMethodology.String(),
		Annuity:              toScheduleRecord(r.Annuity),
		ConstantAmortization: toScheduleRecord(r.ConstantAmortization),
		StatedVsAnnuityDiff:  r.StatedVsAnnuityDiff,
		StatedVsConstantDiff: r.StatedVsConstantDiff,
		RateDiffAnnualized:   r.RateDiffAnnualized,
	}
}

func (r reportRecord) toModel() (model.RecalculationReport, error) {
	method, err := methodologyOrZero(r.DetectedMethodology)
	if err != nil {
		return model.RecalculationReport{}, err
	}
	annuity, err := r.Annuity.toModel()
	if err != nil {
		return model.RecalculationReport{}, fmt.Errorf("annuity schedule: %w", err)
	}
	constant, err := r.ConstantAmortization.toModel()
	if err != nil {
		return model.RecalculationReport{}, fmt.Errorf("constant amortization schedule: %w", err)
	}
	return model.RecalculationReport{
		Success:              r.Success,
		Error:                r.Error,
		ContractingDate:      r.ContractingDate,
		ResolvedMonthlyRate:  r.ResolvedMonthlyRate,
		ContractMonthlyRate:  r.ContractMonthlyRate,
		ReferenceRateUsed:    r.ReferenceRateUsed,
		ReferenceRateMonthly: r.ReferenceRateMonthly,
		ReferenceRateWarning: r.ReferenceRateWarning,
		StatedInstallment:    r.StatedInstallment,
		DetectedMethodology:  method,
		Annuity:              annuity,
		ConstantAmortization: constant,
		StatedVsAnnuityDiff:  r.StatedVsAnnuityDiff,
		StatedVsConstantDiff: r.StatedVsConstantDiff,
		RateDiffAnnualized:   r.RateDiffAnnualized,
	}, nil
}

func toValidationRecord(v model.ValidationResult) validationRecord {
	return validationRecord{
		Valid:               v.Valid,
		Irregularities:      nonNil(v.Irregularities),
		Advisories:          nonNil(v.Advisories),
		DetectedMethodology: v.DetectedMethodology.String(),
	}
}

func (r validationRecord) toModel() (model.ValidationResult, error) {
	method, err := methodologyOrZero(r.DetectedMethodology)
	if err != nil {
		return model.ValidationResult{}, err
	}
	return model.ValidationResult{
		Valid:               r.Valid,
		Irregularities:      nonNil(r.Irregularities),
		Advisories:          nonNil(r.Advisories),
		DetectedMethodology: method,
	}, nil
}

func methodologyOrZero(s string) (valueobject.Methodology, error) {
	if s == "" {
		return valueobject.Methodology{}, nil
	}
	return valueobject.NewMethodology(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
