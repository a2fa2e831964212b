package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatePoint is one observation of a central-bank time series.
type RatePoint struct {
	Date  time.Time
	Value decimal.Decimal
}
