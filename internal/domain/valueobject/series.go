package valueobject

import (
	"errors"
	"fmt"
)

// ErrUnknownSeries is returned when a series name is not in the catalog.
var ErrUnknownSeries = errors.New("unknown reference series")

// Periodicity is the sampling frequency of a central-bank series.
type Periodicity int

const (
	Daily Periodicity = iota + 1
	Monthly
)

func (p Periodicity) String() string {
	switch p {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Series is an entry of the BACEN SGS catalog the service knows how to read.
type Series struct {
	name        string
	code        int
	periodicity Periodicity
}

var (
	// SeriesSelicMonthly is the SELIC target, % per year. It is queried per
	// month and the last point of the month is used.
	SeriesSelicMonthly = Series{name: "selic_monthly", code: 432, periodicity: Monthly}
	// SeriesSelicDaily is the SELIC rate, % per day.
	SeriesSelicDaily = Series{name: "selic_daily", code: 11, periodicity: Daily}
	// SeriesCDIAnnualized is the CDI rate annualized on a 252-day basis, % per year.
	SeriesCDIAnnualized = Series{name: "cdi_annualized", code: 4389, periodicity: Daily}
	// SeriesCDIDaily is the CDI rate, % per day.
	SeriesCDIDaily = Series{name: "cdi_daily", code: 12, periodicity: Daily}
	// SeriesIPCAMonthly is the IPCA monthly variation, % per month.
	SeriesIPCAMonthly = Series{name: "ipca_monthly", code: 433, periodicity: Monthly}
	// SeriesIPCA12M is the IPCA accumulated over 12 months.
	SeriesIPCA12M = Series{name: "ipca_12m", code: 13522, periodicity: Monthly}
)

var seriesCatalog = map[string]Series{
	SeriesSelicMonthly.name:  SeriesSelicMonthly,
	SeriesSelicDaily.name:    SeriesSelicDaily,
	SeriesCDIAnnualized.name: SeriesCDIAnnualized,
	SeriesCDIDaily.name:      SeriesCDIDaily,
	SeriesIPCAMonthly.name:   SeriesIPCAMonthly,
	SeriesIPCA12M.name:       SeriesIPCA12M,
}

// LookupSeries returns the catalog entry for name.
func LookupSeries(name string) (Series, error) {
	s, ok := seriesCatalog[name]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
	}
	return s, nil
}

// Name returns the catalog key.
func (s Series) Name() string { return s.name }

// Code returns the SGS numeric series code.
func (s Series) Code() int { return s.code }

// Periodicity returns the sampling frequency.
func (s Series) Periodicity() Periodicity { return s.periodicity }

// IsZero returns true if the series has not been initialised.
func (s Series) IsZero() bool { return s.code == 0 }

// String returns the catalog key.
func (s Series) String() string { return s.name }
