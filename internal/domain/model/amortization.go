package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// internalPlaces bounds the scale of intermediate schedule values so decimal
// digits do not grow with every period. Rounding to cents happens only when
// results leave the domain.
const internalPlaces = 10

// MaxInstallments is the longest term the engine schedules (100 years of
// monthly payments). Longer terms yield an empty schedule.
const MaxInstallments = 1200

var (
	hundred      = decimal.NewFromInt(100)
	balanceFloor = decimal.NewFromFloat(0.01)
)

// InstallmentEntry is one row of an amortization schedule.
type InstallmentEntry struct {
	Number           int
	DueDate          time.Time
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	RemainingBalance decimal.Decimal
}

// AmortizationSchedule is the full output of one engine run.
// For the annuity method PeriodicPayment is the constant PMT; for constant
// amortization it equals FirstPayment.
type AmortizationSchedule struct {
	Method          valueobject.Methodology
	PeriodicPayment decimal.Decimal
	FirstPayment    decimal.Decimal
	LastPayment     decimal.Decimal
	TotalPaid       decimal.Decimal
	TotalInterest   decimal.Decimal
	Entries         []InstallmentEntry
}

// IsEmpty reports whether the schedule has no installments.
func (s AmortizationSchedule) IsEmpty() bool { return len(s.Entries) == 0 }

func emptySchedule(method valueobject.Methodology) AmortizationSchedule {
	return AmortizationSchedule{
		Method:          method,
		PeriodicPayment: decimal.Zero,
		FirstPayment:    decimal.Zero,
		LastPayment:     decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalInterest:   decimal.Zero,
		Entries:         []InstallmentEntry{},
	}
}

// MonthlyFromAnnual converts a compound annual percentage into the equivalent
// monthly percentage. Non-positive input yields zero.
func MonthlyFromAnnual(annualPercent decimal.Decimal) decimal.Decimal {
	if !annualPercent.IsPositive() {
		return decimal.Zero
	}
	a, _ := annualPercent.Div(hundred).Float64()
	return fromFloat((math.Pow(1+a, 1.0/12) - 1) * 100)
}

// AnnualFromMonthly converts a compound monthly percentage into the equivalent
// annual percentage. Non-positive input yields zero.
func AnnualFromMonthly(monthlyPercent decimal.Decimal) decimal.Decimal {
	if !monthlyPercent.IsPositive() {
		return decimal.Zero
	}
	m, _ := monthlyPercent.Div(hundred).Float64()
	return fromFloat((math.Pow(1+m, 12) - 1) * 100)
}

// fromFloat maps values float64 cannot represent to zero.
func fromFloat(f float64) decimal.Decimal {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// annuityPayment returns PMT = PV * i(1+i)^n / ((1+i)^n - 1), or PV/n when the
// rate vanishes. When (1+i)^n overflows float64 the payment is its limit PV*i.
func annuityPayment(principal, i decimal.Decimal, n int) decimal.Decimal {
	if i.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	fi, _ := i.Float64()
	pow := math.Pow(1+fi, float64(n))
	if math.IsInf(pow, 0) || math.IsNaN(pow) {
		return principal.Mul(i).Round(internalPlaces)
	}
	factor := decimal.NewFromFloat(pow)
	denominator := factor.Sub(decimal.NewFromInt(1))
	if denominator.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	return principal.Mul(i.Mul(factor)).Div(denominator).Round(internalPlaces)
}

// ComputeAnnuity generates a fixed-installment (Price) schedule. The final
// period amortizes the exact remaining balance so the schedule closes at zero.
// Degenerate inputs, including terms above MaxInstallments, yield an empty
// schedule.
func ComputeAnnuity(principal, monthlyRatePercent decimal.Decimal, count int, firstDueDate time.Time) AmortizationSchedule {
	if !principal.IsPositive() || count <= 0 || count > MaxInstallments {
		return emptySchedule(valueobject.MethodologyAnnuity)
	}

	i := monthlyRatePercent.Div(hundred)
	pmt := annuityPayment(principal, i, count)

	balance := principal
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero
	entries := make([]InstallmentEntry, 0, count)

	for k := 1; k <= count; k++ {
		interest := balance.Mul(i).Round(internalPlaces)

		var amortized, payment decimal.Decimal
		if k == count {
			amortized = balance
			payment = amortized.Add(interest)
		} else {
			amortized = pmt.Sub(interest)
			payment = pmt
		}

		balance = snapBalance(balance.Sub(amortized))
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(payment)

		entries = append(entries, InstallmentEntry{
			Number:           k,
			DueDate:          addMonths(firstDueDate, k-1),
			Payment:          payment,
			Interest:         interest,
			Principal:        amortized,
			RemainingBalance: balance,
		})
	}

	return AmortizationSchedule{
		Method:          valueobject.MethodologyAnnuity,
		PeriodicPayment: pmt,
		FirstPayment:    entries[0].Payment,
		LastPayment:     entries[len(entries)-1].Payment,
		TotalPaid:       totalPaid,
		TotalInterest:   totalInterest,
		Entries:         entries,
	}
}

// ComputeConstantAmortization generates a constant-principal (SAC) schedule.
// Payments decrease as interest on the shrinking balance falls.
// Degenerate inputs, including terms above MaxInstallments, yield an empty
// schedule.
func ComputeConstantAmortization(principal, monthlyRatePercent decimal.Decimal, count int, firstDueDate time.Time) AmortizationSchedule {
	if !principal.IsPositive() || count <= 0 || count > MaxInstallments {
		return emptySchedule(valueobject.MethodologyConstantAmortization)
	}

	i := monthlyRatePercent.Div(hundred)
	amortized := principal.Div(decimal.NewFromInt(int64(count))).Round(internalPlaces)

	balance := principal
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero
	entries := make([]InstallmentEntry, 0, count)

	for k := 1; k <= count; k++ {
		interest := balance.Mul(i).Round(internalPlaces)
		payment := amortized.Add(interest)

		balance = snapBalance(balance.Sub(amortized))
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(payment)

		entries = append(entries, InstallmentEntry{
			Number:           k,
			DueDate:          addMonths(firstDueDate, k-1),
			Payment:          payment,
			Interest:         interest,
			Principal:        amortized,
			RemainingBalance: balance,
		})
	}

	first := entries[0].Payment
	return AmortizationSchedule{
		Method:          valueobject.MethodologyConstantAmortization,
		PeriodicPayment: first,
		FirstPayment:    first,
		LastPayment:     entries[len(entries)-1].Payment,
		TotalPaid:       totalPaid,
		TotalInterest:   totalInterest,
		Entries:         entries,
	}
}

// snapBalance zeroes balances below one cent, including tiny negatives.
func snapBalance(b decimal.Decimal) decimal.Decimal {
	if b.LessThan(balanceFloor) {
		return decimal.Zero
	}
	return b
}

// addMonths moves t forward by n calendar months, clamping to the last day
// of the target month when the day does not exist there.
func addMonths(t time.Time, n int) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := target.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, t.Location())
}
