package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
)

func newRecordingProvider() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()

	return exporter, sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

func TestFilteringProvider_SuppressesPassTracer(t *testing.T) {
	t.Parallel()

	exporter, base := newRecordingProvider()
	fp := observability.NewFilteringTracerProvider(base)

	_, span := fp.Tracer(observability.PassTracerName).Start(context.Background(), observability.SpanPassRun)
	span.End()

	assert.Empty(t, exporter.GetSpans())
}

func TestFilteringProvider_SuppressesTemplateSpans(t *testing.T) {
	t.Parallel()

	exporter, base := newRecordingProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer(observability.TracerName)

	_, stage := tracer.Start(context.Background(), "gryphon.lower")
	stage.End()

	_, match := tracer.Start(context.Background(), observability.SpanTemplateMatch)
	match.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "gryphon.lower", spans[0].Name)
}
