package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder publishes recalculation counters through an OpenTelemetry meter.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	recalculations metric.Int64Counter
	irregular      metric.Int64Counter
	rateLookups    metric.Int64Counter
}

// NewRecorder registers the service counters on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	recalculations, err := meter.Int64Counter("recalculations_total",
		metric.WithDescription("Contract recalculations by outcome"))
	if err != nil {
		return nil, fmt.Errorf("create recalculations counter: %w", err)
	}
	irregular, err := meter.Int64Counter("irregular_contracts_total",
		metric.WithDescription("Contracts whose stated installment diverges from the Price method"))
	if err != nil {
		return nil, fmt.Errorf("create irregular counter: %w", err)
	}
	rateLookups, err := meter.Int64Counter("reference_rate_lookups_total",
		metric.WithDescription("Reference rate lookups by index and result"))
	if err != nil {
		return nil, fmt.Errorf("create rate lookups counter: %w", err)
	}
	return &Recorder{
		recalculations: recalculations,
		irregular:      irregular,
		rateLookups:    rateLookups,
	}, nil
}

func (r *Recorder) RecordRecalculation(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.recalculations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (r *Recorder) RecordIrregular(ctx context.Context) {
	if r == nil {
		return
	}
	r.irregular.Add(ctx, 1)
}

func (r *Recorder) RecordRateLookup(ctx context.Context, index, result string) {
	if r == nil {
		return
	}
	r.rateLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("index", index),
		attribute.String("result", result),
	))
}
