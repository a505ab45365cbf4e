package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Unit outcomes recorded on gryphon.units.total.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Histogram bucket boundaries for unit durations in seconds. Most units
// finish well under a second; very large dumps take longer.
var unitDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}

// TranspileMetrics records per-unit transpilation outcomes.
type TranspileMetrics struct {
	unitsTotal       metric.Int64Counter
	unitDuration     metric.Float64Histogram
	diagnosticsTotal metric.Int64Counter
	templateHits     metric.Int64Counter
	templateMisses   metric.Int64Counter
	inflight         metric.Int64UpDownCounter
	outputBytes      metric.Int64Counter
}

// UnitStats summarizes one finished unit.
type UnitStats struct {
	Status      string
	Duration    time.Duration
	Warnings    int
	Errors      int
	OutputBytes int
}

// NewTranspileMetrics creates the transpilation instruments from the given meter.
func NewTranspileMetrics(mt metric.Meter) (*TranspileMetrics, error) {
	b := newMetricBuilder(mt)

	tm := &TranspileMetrics{
		unitsTotal:       b.counter("gryphon.units.total", "Transpiled units by outcome", "{unit}"),
		unitDuration:     b.histogram("gryphon.unit.duration.seconds", "Wall time per unit", "s", unitDurationBuckets),
		diagnosticsTotal: b.counter("gryphon.diagnostics.total", "Diagnostics by severity", "{diagnostic}"),
		templateHits:     b.counter("gryphon.template.hits.total", "Expressions replaced by a template", "{expression}"),
		templateMisses:   b.counter("gryphon.template.misses.total", "Expressions no template matched", "{expression}"),
		inflight:         b.upDownCounter("gryphon.units.inflight", "Units currently being transpiled", "{unit}"),
		outputBytes:      b.counter("gryphon.output.bytes.total", "Bytes of Kotlin emitted", "By"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return tm, nil
}

// UnitStarted marks a unit as in flight. Call UnitFinished when it completes.
func (tm *TranspileMetrics) UnitStarted(ctx context.Context) {
	if tm == nil {
		return
	}

	tm.inflight.Add(ctx, 1)
}

// UnitFinished records the outcome of a unit started with UnitStarted.
func (tm *TranspileMetrics) UnitFinished(ctx context.Context, stats UnitStats) {
	if tm == nil {
		return
	}

	tm.inflight.Add(ctx, -1)
	tm.unitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", stats.Status)))
	tm.unitDuration.Record(ctx, stats.Duration.Seconds())

	if stats.Warnings > 0 {
		tm.diagnosticsTotal.Add(ctx, int64(stats.Warnings), metric.WithAttributes(attribute.String("severity", "warning")))
	}

	if stats.Errors > 0 {
		tm.diagnosticsTotal.Add(ctx, int64(stats.Errors), metric.WithAttributes(attribute.String("severity", "error")))
	}

	if stats.OutputBytes > 0 {
		tm.outputBytes.Add(ctx, int64(stats.OutputBytes))
	}
}

// RecordTemplate counts one template lookup.
func (tm *TranspileMetrics) RecordTemplate(ctx context.Context, hit bool) {
	if tm == nil {
		return
	}

	if hit {
		tm.templateHits.Add(ctx, 1)

		return
	}

	tm.templateMisses.Add(ctx, 1)
}
