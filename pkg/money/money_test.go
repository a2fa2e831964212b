package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Currency
// ---------------------------------------------------------------------------

func TestNewCurrency_Valid(t *testing.T) {
	tests := []struct {
		code   string
		symbol string
	}{
		{"BRL", "R$"},
		{"USD", "$"},
		{"EUR", "EUR"},
	}
	for _, tt := range tests {
		c, err := NewCurrency(tt.code)
		if err != nil {
			t.Errorf("NewCurrency(%q) unexpected error: %v", tt.code, err)
		}
		if c.Code() != tt.code {
			t.Errorf("NewCurrency(%q).Code() = %q, want %q", tt.code, c.Code(), tt.code)
		}
		if c.Symbol() != tt.symbol {
			t.Errorf("NewCurrency(%q).Symbol() = %q, want %q", tt.code, c.Symbol(), tt.symbol)
		}
	}
}

func TestNewCurrency_Invalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"lowercase", "brl"},
		{"too short", "BR"},
		{"too long", "BRLL"},
		{"special chars", "R$$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurrency(tt.code)
			if err == nil {
				t.Errorf("NewCurrency(%q) expected error, got nil", tt.code)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

func TestNewFromString(t *testing.T) {
	m, err := NewFromString("1617.6698", "BRL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Amount().Equal(decimal.RequireFromString("1617.6698")) {
		t.Errorf("unexpected amount %s", m.Amount())
	}
	if m.Currency().Code() != "BRL" {
		t.Errorf("unexpected currency %s", m.Currency())
	}

	if _, err := NewFromString("abc", "BRL"); err == nil {
		t.Error("expected error for invalid amount")
	}
	if _, err := NewFromString("10", "real"); err == nil {
		t.Error("expected error for invalid currency")
	}
}

func TestSub(t *testing.T) {
	a := New(decimal.NewFromInt(1700), BRL)
	b := New(decimal.RequireFromString("1617.67"), BRL)

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.String() != "82.33 BRL" {
		t.Errorf("Sub() = %s, want 82.33 BRL", diff)
	}

	if _, err := a.Sub(New(decimal.NewFromInt(1), USD)); err == nil {
		t.Error("expected currency mismatch error")
	}
}

func TestCentsAndAbs(t *testing.T) {
	m := New(decimal.RequireFromString("-1.005"), BRL)
	if got := m.Abs().Cents().Amount().String(); got != "1.01" {
		t.Errorf("Abs().Cents() = %s, want 1.01", got)
	}
}

func TestEqual(t *testing.T) {
	a := New(decimal.RequireFromString("10.0"), BRL)
	b := New(decimal.RequireFromString("10.00"), BRL)
	if !a.Equal(b) {
		t.Error("expected decimal-equivalent amounts to be equal")
	}
	if a.Equal(New(decimal.RequireFromString("10"), USD)) {
		t.Error("expected different currencies to differ")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		amount string
		cur    Currency
		want   string
	}{
		{"0", BRL, "R$ 0,00"},
		{"1", BRL, "R$ 1,00"},
		{"999.999", BRL, "R$ 1.000,00"},
		{"1617.6698", BRL, "R$ 1.617,67"},
		{"1234567.8", BRL, "R$ 1.234.567,80"},
		{"-10", BRL, "-R$ 10,00"},
		{"-0.001", BRL, "R$ 0,00"},
		{"2500.5", USD, "$ 2,500.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := New(decimal.RequireFromString(tt.amount), tt.cur).Display()
			if got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}
