package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidMethodology is returned when a methodology string is not recognised.
var ErrInvalidMethodology = errors.New("invalid amortization methodology")

// Methodology identifies an amortization method.
type Methodology struct {
	value string
}

const (
	methodologyAnnuity              = "annuity"
	methodologyConstantAmortization = "constant_amortization"
)

var (
	// MethodologyAnnuity is the fixed-installment (Price) method.
	MethodologyAnnuity = Methodology{value: methodologyAnnuity}
	// MethodologyConstantAmortization is the constant-principal (SAC) method.
	MethodologyConstantAmortization = Methodology{value: methodologyConstantAmortization}
)

var validMethodologies = map[string]Methodology{
	methodologyAnnuity:              MethodologyAnnuity,
	methodologyConstantAmortization: MethodologyConstantAmortization,
}

// NewMethodology creates a Methodology from a raw string.
func NewMethodology(s string) (Methodology, error) {
	v, ok := validMethodologies[s]
	if !ok {
		return Methodology{}, fmt.Errorf("%w: %q", ErrInvalidMethodology, s)
	}
	return v, nil
}

// String returns the string representation of the methodology.
func (m Methodology) String() string { return m.value }

// IsZero returns true when no methodology is set. A zero Methodology stands
// for "undetermined".
func (m Methodology) IsZero() bool { return m.value == "" }

// Equal returns true when both methodologies carry the same value.
func (m Methodology) Equal(other Methodology) bool { return m.value == other.value }

// Label returns the market name of the method.
func (m Methodology) Label() string {
	switch m.value {
	case methodologyAnnuity:
		return "Price"
	case methodologyConstantAmortization:
		return "SAC"
	default:
		return ""
	}
}
