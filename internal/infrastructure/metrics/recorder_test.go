package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/metrics"
)

func TestRecorder_CountsByAttribute(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := metrics.NewRecorder(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordRecalculation(ctx, "success")
	rec.RecordRecalculation(ctx, "success")
	rec.RecordRecalculation(ctx, "failed")
	rec.RecordIrregular(ctx)
	rec.RecordRateLookup(ctx, "policy_rate", "hit")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	totals := map[string]int64{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, m.Name)
		for _, dp := range sum.DataPoints {
			totals[m.Name] += dp.Value
		}
	}
	assert.Equal(t, int64(3), totals["recalculations_total"])
	assert.Equal(t, int64(1), totals["irregular_contracts_total"])
	assert.Equal(t, int64(1), totals["reference_rate_lookups_total"])
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *metrics.Recorder
	assert.NotPanics(t, func() {
		rec.RecordRecalculation(context.Background(), "success")
		rec.RecordIrregular(context.Background())
		rec.RecordRateLookup(context.Background(), "policy_rate", "miss")
	})
}
