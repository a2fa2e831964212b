package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidRateType is returned when a rate type string is not recognised.
var ErrInvalidRateType = errors.New("invalid rate type")

// RateType tells whether a contract rate is applied directly or as a spread
// over a reference index.
type RateType struct {
	value string
}

const (
	rateTypeFixed    = "fixed"
	rateTypeFloating = "floating"
)

var (
	RateTypeFixed    = RateType{value: rateTypeFixed}
	RateTypeFloating = RateType{value: rateTypeFloating}
)

// validRateTypes is keyed by normalizeLabel output.
var validRateTypes = map[string]RateType{
	rateTypeFixed:    RateTypeFixed,
	rateTypeFloating: RateTypeFloating,

	// Portuguese labels emitted by the extraction layer, with or without
	// accents and hyphens ("prefixada", "pós-fixada", "Pré-fixado").
	"pre":       RateTypeFixed,
	"pos":       RateTypeFloating,
	"prefixada": RateTypeFixed,
	"posfixada": RateTypeFloating,
	"prefixado": RateTypeFixed,
	"posfixado": RateTypeFloating,
}

// NewRateType parses a rate type. An empty string yields RateTypeFixed.
func NewRateType(s string) (RateType, error) {
	key := normalizeLabel(s)
	if key == "" {
		return RateTypeFixed, nil
	}
	v, ok := validRateTypes[key]
	if !ok {
		return RateType{}, fmt.Errorf("%w: %q", ErrInvalidRateType, s)
	}
	return v, nil
}

// String returns the canonical representation.
func (r RateType) String() string { return r.value }

// IsZero returns true if the rate type has not been initialised.
func (r RateType) IsZero() bool { return r.value == "" }

// Equal returns true when both rate types carry the same value.
func (r RateType) Equal(other RateType) bool { return r.value == other.value }

// IsFloating reports whether the contract rate is a spread over a reference index.
func (r RateType) IsFloating() bool { return r.value == rateTypeFloating }
