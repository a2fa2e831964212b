package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code with its display conventions.
type Currency struct {
	code      string
	symbol    string
	decimal   string
	thousands string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
// Unknown currencies display with their code and dot-separated decimals.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	if c, ok := known[code]; ok {
		return c, nil
	}
	return Currency{code: code, symbol: code, decimal: ".", thousands: ","}, nil
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// Symbol returns the display symbol, e.g. "R$".
func (c Currency) Symbol() string {
	return c.symbol
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// Common currencies.
var (
	BRL = Currency{code: "BRL", symbol: "R$", decimal: ",", thousands: "."}
	USD = Currency{code: "USD", symbol: "$", decimal: ".", thousands: ","}
)

var known = map[string]Currency{
	BRL.code: BRL,
	USD.code: USD,
}

// Money represents an immutable monetary amount with currency.
// Fields are unexported to enforce immutability.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// NewFromString parses an amount string and currency code into a Money value.
func NewFromString(amount string, currency string) (Money, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency: %w", err)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return Money{amount: d, currency: cur}, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// Sub returns the difference of m minus other. Returns an error if the currencies do not match.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency.code != other.currency.code {
		return Money{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Abs returns m with the absolute value of the amount.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Cents rounds the amount half away from zero to two places.
func (m Money) Cents() Money {
	return Money{amount: m.amount.Round(2), currency: m.currency}
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency.code == other.currency.code && m.amount.Equal(other.amount)
}

// String formats the Money value as "<amount> <currency>", for example "1617.67 BRL".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency.Code())
}

// Display formats the amount the way the currency is written locally,
// for example "R$ 1.617,67" or "-R$ 10,00".
func (m Money) Display() string {
	fixed := m.amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(m.currency.thousands)
		}
		b.WriteRune(r)
	}

	sign := ""
	if m.amount.Round(2).IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%s %s%s%s", sign, m.currency.symbol, b.String(), m.currency.decimal, frac)
}
