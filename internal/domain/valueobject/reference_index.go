package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidReferenceIndex is returned when a reference index string is not recognised.
var ErrInvalidReferenceIndex = errors.New("invalid reference index")

// ReferenceIndex is the benchmark a floating-rate contract is indexed to.
type ReferenceIndex struct {
	value  string
	series Series
}

const (
	referenceIndexPolicyRate    = "policy_rate"
	referenceIndexInterbankRate = "interbank_rate"
)

var (
	// ReferenceIndexPolicyRate is the SELIC policy rate.
	ReferenceIndexPolicyRate = ReferenceIndex{value: referenceIndexPolicyRate, series: SeriesSelicMonthly}
	// ReferenceIndexInterbankRate is the CDI interbank rate.
	ReferenceIndexInterbankRate = ReferenceIndex{value: referenceIndexInterbankRate, series: SeriesCDIAnnualized}
)

// validReferenceIndexes is keyed by normalizeLabel output.
var validReferenceIndexes = map[string]ReferenceIndex{
	"policyrate":    ReferenceIndexPolicyRate,
	"interbankrate": ReferenceIndexInterbankRate,
	"selic":         ReferenceIndexPolicyRate,
	"cdi":           ReferenceIndexInterbankRate,
}

// NewReferenceIndex parses a reference index. An empty string yields
// ReferenceIndexPolicyRate.
func NewReferenceIndex(s string) (ReferenceIndex, error) {
	key := normalizeLabel(s)
	if key == "" {
		return ReferenceIndexPolicyRate, nil
	}
	v, ok := validReferenceIndexes[key]
	if !ok {
		return ReferenceIndex{}, fmt.Errorf("%w: %q", ErrInvalidReferenceIndex, s)
	}
	return v, nil
}

// String returns the canonical representation.
func (r ReferenceIndex) String() string { return r.value }

// IsZero returns true if the index has not been initialised.
func (r ReferenceIndex) IsZero() bool { return r.value == "" }

// Equal returns true when both indexes carry the same value.
func (r ReferenceIndex) Equal(other ReferenceIndex) bool { return r.value == other.value }

// Series returns the SGS series whose value is the annual rate of this index.
func (r ReferenceIndex) Series() Series { return r.series }
