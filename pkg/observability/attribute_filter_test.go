package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
)

func newFilteredProvider(logger *slog.Logger) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)

	return exporter, sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

func TestAttributeFilter_StripsBlocked(t *testing.T) {
	t.Parallel()

	exporter, tp := newFilteredProvider(nil)

	_, span := tp.Tracer("test").Start(context.Background(), "gryphon.unit")
	span.SetAttributes(
		attribute.String("source.text", "let x = 1"),
		attribute.String("output.text", "val x = 1"),
		attribute.String("user.name", "someone"),
		attribute.String("unit.name", "main.swift"),
		attribute.Int("output.bytes", 9),
		attribute.String("error.type", "malformed"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])

	assert.NotContains(t, attrs, "source.text")
	assert.NotContains(t, attrs, "output.text")
	assert.NotContains(t, attrs, "user.name")

	assert.Equal(t, "main.swift", attrs["unit.name"])
	assert.Equal(t, int64(9), attrs["output.bytes"])
	assert.Equal(t, "malformed", attrs["error.type"])
}

func TestAttributeFilter_DropsUnknownAndLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	exporter, tp := newFilteredProvider(logger)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("random.key", "val"),
		attribute.String("pass.name", "wrap-top-level"),
	)
	span.End()

	attrs := spanAttrMap(exporter.GetSpans()[0])

	assert.NotContains(t, attrs, "random.key")
	assert.Equal(t, "wrap-top-level", attrs["pass.name"])
	assert.Contains(t, buf.String(), "random.key")
	assert.Contains(t, buf.String(), "dropped")
}

// spanAttrMap converts a span's attributes into a map for easy assertion.
func spanAttrMap(s tracetest.SpanStub) map[string]any {
	m := make(map[string]any, len(s.Attributes))
	for _, a := range s.Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}
