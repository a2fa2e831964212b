package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// DefaultDetectionTolerance is the relative distance (1%) within which a
// stated installment is considered to match a computed one.
var DefaultDetectionTolerance = decimal.NewFromFloat(0.01)

// MethodologyDetector decides which amortization method produced a stated
// installment.
type MethodologyDetector struct {
	tolerance decimal.Decimal
}

// NewMethodologyDetector creates a detector. A non-positive tolerance falls
// back to DefaultDetectionTolerance.
func NewMethodologyDetector(tolerance decimal.Decimal) MethodologyDetector {
	if !tolerance.IsPositive() {
		tolerance = DefaultDetectionTolerance
	}
	return MethodologyDetector{tolerance: tolerance}
}

// Detect computes the first payment of both methods and classifies stated
// against them. A zero Methodology means neither method matches unambiguously.
func (d MethodologyDetector) Detect(principal, monthlyRatePercent decimal.Decimal, count int, stated decimal.Decimal) valueobject.Methodology {
	annuity := model.ComputeAnnuity(principal, monthlyRatePercent, count, time.Time{})
	constant := model.ComputeConstantAmortization(principal, monthlyRatePercent, count, time.Time{})
	if annuity.IsEmpty() || constant.IsEmpty() {
		return valueobject.Methodology{}
	}
	return d.Classify(annuity.FirstPayment, constant.FirstPayment, stated)
}

// Classify compares stated with precomputed first payments. The winning
// method must be within tolerance and strictly closer than the other one.
func (d MethodologyDetector) Classify(annuityFirst, constantFirst, stated decimal.Decimal) valueobject.Methodology {
	if !stated.IsPositive() {
		return valueobject.Methodology{}
	}

	diffAnnuity := annuityFirst.Sub(stated).Abs().Div(stated)
	diffConstant := constantFirst.Sub(stated).Abs().Div(stated)

	switch {
	case diffAnnuity.LessThanOrEqual(d.tolerance) && diffAnnuity.LessThan(diffConstant):
		return valueobject.MethodologyAnnuity
	case diffConstant.LessThanOrEqual(d.tolerance) && diffConstant.LessThan(diffAnnuity):
		return valueobject.MethodologyConstantAmortization
	default:
		return valueobject.Methodology{}
	}
}
