package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.TranspileMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	tm, err := observability.NewTranspileMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return tm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, point := range sum.DataPoints {
		total += point.Value
	}

	return total
}

func TestTranspileMetrics_UnitLifecycle(t *testing.T) {
	t.Parallel()

	tm, reader := setupTestMeter(t)
	ctx := context.Background()

	tm.UnitStarted(ctx)
	tm.UnitFinished(ctx, observability.UnitStats{
		Status:      observability.StatusOK,
		Duration:    20 * time.Millisecond,
		Warnings:    2,
		OutputBytes: 128,
	})

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "gryphon.units.total")))
	assert.Equal(t, int64(0), sumOf(t, findMetric(rm, "gryphon.units.inflight")))
	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "gryphon.diagnostics.total")))
	assert.Equal(t, int64(128), sumOf(t, findMetric(rm, "gryphon.output.bytes.total")))
	require.NotNil(t, findMetric(rm, "gryphon.unit.duration.seconds"))
}

func TestTranspileMetrics_Templates(t *testing.T) {
	t.Parallel()

	tm, reader := setupTestMeter(t)
	ctx := context.Background()

	tm.RecordTemplate(ctx, true)
	tm.RecordTemplate(ctx, true)
	tm.RecordTemplate(ctx, false)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "gryphon.template.hits.total")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "gryphon.template.misses.total")))
}

func TestTranspileMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var tm *observability.TranspileMetrics

	assert.NotPanics(t, func() {
		tm.UnitStarted(context.Background())
		tm.UnitFinished(context.Background(), observability.UnitStats{Status: observability.StatusFailed})
		tm.RecordTemplate(context.Background(), false)
	})
}
