package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// dateLayouts are the date formats accepted from the extraction layer.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseContractDate parses an extracted date. It returns false when s is
// empty or does not match any accepted layout; such dates count as absent.
func ParseContractDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ContractTermsParams groups the raw fields used to build ContractTerms.
// Nil pointers mark fields the extraction layer could not find.
type ContractTermsParams struct {
	ContractNumber     string
	BankName           string
	CustomerDocument   string
	Principal          decimal.Decimal
	MonthlyRatePercent *decimal.Decimal
	InstallmentCount   *int
	InstallmentValue   *decimal.Decimal
	FirstDueDate       *time.Time
	ContractDate       *time.Time
	RateType           valueobject.RateType
	ReferenceIndex     valueobject.ReferenceIndex
}

// ContractTerms is the immutable set of extracted contract terms a
// recalculation works from.
type ContractTerms struct {
	contractNumber   string
	bankName         string
	customerDocument string
	principal        decimal.Decimal
	monthlyRate      decimal.NullDecimal
	installmentCount int
	hasCount         bool
	installmentValue decimal.NullDecimal
	firstDueDate     time.Time
	contractDate     time.Time
	rateType         valueobject.RateType
	referenceIndex   valueobject.ReferenceIndex
}

// NewContractTerms builds ContractTerms. It never fails: range checks belong
// to the recalculator, which reports them instead of rejecting the input.
func NewContractTerms(p ContractTermsParams) ContractTerms {
	t := ContractTerms{
		contractNumber:   strings.TrimSpace(p.ContractNumber),
		bankName:         strings.TrimSpace(p.BankName),
		customerDocument: strings.TrimSpace(p.CustomerDocument),
		principal:        p.Principal,
		rateType:         p.RateType,
		referenceIndex:   p.ReferenceIndex,
	}
	if t.rateType.IsZero() {
		t.rateType = valueobject.RateTypeFixed
	}
	if t.referenceIndex.IsZero() {
		t.referenceIndex = valueobject.ReferenceIndexPolicyRate
	}
	if p.MonthlyRatePercent != nil {
		t.monthlyRate = decimal.NewNullDecimal(*p.MonthlyRatePercent)
	}
	if p.InstallmentCount != nil {
		t.installmentCount = *p.InstallmentCount
		t.hasCount = true
	}
	if p.InstallmentValue != nil {
		t.installmentValue = decimal.NewNullDecimal(*p.InstallmentValue)
	}
	if p.FirstDueDate != nil {
		t.firstDueDate = truncateDay(*p.FirstDueDate)
	}
	if p.ContractDate != nil {
		t.contractDate = truncateDay(*p.ContractDate)
	}
	return t
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ContractNumber returns the contract identifier printed on the document.
func (t ContractTerms) ContractNumber() string { return t.contractNumber }

// BankName returns the lender name.
func (t ContractTerms) BankName() string { return t.bankName }

// CustomerDocument returns the borrower CPF or CNPJ.
func (t ContractTerms) CustomerDocument() string { return t.customerDocument }

// Principal returns the financed amount.
func (t ContractTerms) Principal() decimal.Decimal { return t.principal }

// RateType returns whether the stated rate is fixed or a spread.
func (t ContractTerms) RateType() valueobject.RateType { return t.rateType }

// ReferenceIndex returns the benchmark of a floating-rate contract.
func (t ContractTerms) ReferenceIndex() valueobject.ReferenceIndex { return t.referenceIndex }

// MonthlyRatePercent returns the stated rate and whether it was present.
func (t ContractTerms) MonthlyRatePercent() (decimal.Decimal, bool) {
	return t.monthlyRate.Decimal, t.monthlyRate.Valid
}

// InstallmentCount returns the stated term and whether it was present.
func (t ContractTerms) InstallmentCount() (int, bool) {
	return t.installmentCount, t.hasCount
}

// InstallmentValue returns the stated periodic payment and whether it was present.
func (t ContractTerms) InstallmentValue() (decimal.Decimal, bool) {
	return t.installmentValue.Decimal, t.installmentValue.Valid
}

// FirstDueDate returns the first installment date and whether it was present.
func (t ContractTerms) FirstDueDate() (time.Time, bool) {
	return t.firstDueDate, !t.firstDueDate.IsZero()
}

// ContractDate returns the contracting date and whether it was present.
func (t ContractTerms) ContractDate() (time.Time, bool) {
	return t.contractDate, !t.contractDate.IsZero()
}
