// Package transpiler wires the stages together: it decodes a tree dump,
// builds the source tree, lowers it with the template catalogue, runs the
// pass pipeline and prints Kotlin with a position map.
package transpiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/vinivendra/Gryphon-sub003/pkg/codegen"
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/lower"
	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
	"github.com/vinivendra/Gryphon-sub003/pkg/passes"
	"github.com/vinivendra/Gryphon-sub003/pkg/source"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// ErrInputTooLarge is returned for units above Config.MaxInputSize.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// Config configures a Transpiler. The zero value transpiles without
// templates, with the default pass pipeline and no telemetry.
type Config struct {
	// Templates gets the first chance to replace calls and member references.
	Templates lower.Templates

	// Passes overrides the default pass pipeline.
	Passes *passes.Pipeline

	// TracerProvider supplies the stage and per-pass tracers.
	TracerProvider trace.TracerProvider

	// Metrics records unit outcomes. Nil disables metrics.
	Metrics *observability.TranspileMetrics

	// Logger receives stage-level debug logs. Nil uses slog.Default.
	Logger *slog.Logger

	// Diagnostics receives every unit's diagnostics. Nil allocates one.
	Diagnostics *diag.Collector

	// Indent is one indentation level of generated code.
	Indent string

	// MaxIterations caps the decoder loop; zero uses the decoder default.
	MaxIterations int

	// MaxInputSize rejects larger units; zero means no limit.
	MaxInputSize uint64
}

// Transpiler turns tree dumps into Kotlin. It holds no per-unit state and is
// safe for concurrent use.
type Transpiler struct {
	templates   lower.Templates
	pipeline    *passes.Pipeline
	tracer      trace.Tracer
	passTracer  trace.Tracer
	metrics     *observability.TranspileMetrics
	logger      *slog.Logger
	diagnostics *diag.Collector
	decoder     dump.Decoder
	indent      string
	maxInput    uint64
}

// New builds a Transpiler from cfg.
func New(cfg Config) *Transpiler {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = nooptrace.NewTracerProvider()
	}

	pipeline := cfg.Passes
	if pipeline == nil {
		pipeline = passes.Default()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	collector := cfg.Diagnostics
	if collector == nil {
		collector = diag.NewCollector()
	}

	return &Transpiler{
		templates:   cfg.Templates,
		pipeline:    pipeline,
		tracer:      tp.Tracer(observability.TracerName),
		passTracer:  tp.Tracer(observability.PassTracerName),
		metrics:     cfg.Metrics,
		logger:      logger,
		diagnostics: collector,
		decoder:     dump.Decoder{MaxIterations: cfg.MaxIterations},
		indent:      cfg.Indent,
		maxInput:    cfg.MaxInputSize,
	}
}

// Diagnostics returns the collector every unit reports into.
func (t *Transpiler) Diagnostics() *diag.Collector {
	return t.diagnostics
}

// Unit is one compilation unit: a name for diagnostics and its dump text.
type Unit struct {
	Name string
	Text string
}

// Result is the output of one unit.
type Result struct {
	Unit        string
	Kotlin      string
	Map         []codegen.MapEntry
	Diagnostics []diag.Diagnostic
	Duration    time.Duration
}

// Warnings returns the unit's warnings.
func (r *Result) Warnings() []diag.Diagnostic {
	return r.bySeverity(diag.SeverityWarning)
}

// Errors returns the unit's errors.
func (r *Result) Errors() []diag.Diagnostic {
	return r.bySeverity(diag.SeverityError)
}

func (r *Result) bySeverity(severity diag.Severity) []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			out = append(out, d)
		}
	}

	return out
}

// UnitError reports the stage at which a unit failed.
type UnitError struct {
	Err   error
	Unit  string
	Stage diag.Stage
}

// Error implements error.
func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Unit, e.Stage, e.Err)
}

// Unwrap returns the underlying stage error.
func (e *UnitError) Unwrap() error {
	return e.Err
}

// TranspileUnit runs every stage on one unit. A failing stage stops the unit
// and returns a *UnitError; the partial Result still carries the diagnostics
// recorded so far.
func (t *Transpiler) TranspileUnit(ctx context.Context, unit Unit) (*Result, error) {
	start := time.Now()

	ctx, span := t.tracer.Start(ctx, "gryphon.unit", trace.WithAttributes(
		attribute.String("unit.name", unit.Name),
		attribute.Int("unit.bytes", len(unit.Text)),
	))
	defer span.End()

	t.metrics.UnitStarted(ctx)

	local := diag.NewCollector()
	result := &Result{Unit: unit.Name}

	kotlin, entries, err := t.run(ctx, unit, local.Scoped(unit.Name))

	result.Duration = time.Since(start)
	result.Diagnostics = local.Diagnostics()

	for _, d := range result.Diagnostics {
		t.diagnostics.Add(d)
	}

	stats := observability.UnitStats{
		Status:   observability.StatusOK,
		Duration: result.Duration,
		Warnings: len(result.Warnings()),
		Errors:   len(result.Errors()),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unit failed")

		stats.Status = observability.StatusFailed
		t.metrics.UnitFinished(ctx, stats)

		t.logger.DebugContext(ctx, "unit failed",
			slog.String("unit", unit.Name), slog.Duration("duration", result.Duration), slog.Any("error", err))

		return result, err
	}

	result.Kotlin = kotlin
	result.Map = entries

	stats.OutputBytes = len(kotlin)
	t.metrics.UnitFinished(ctx, stats)

	span.SetAttributes(
		attribute.Int("output.bytes", len(kotlin)),
		attribute.Int("diagnostics.warnings", stats.Warnings),
	)

	t.logger.DebugContext(ctx, "unit done",
		slog.String("unit", unit.Name), slog.Duration("duration", result.Duration), slog.Int("warnings", stats.Warnings))

	return result, nil
}

func (t *Transpiler) run(ctx context.Context, unit Unit, scope *diag.Scope) (string, []codegen.MapEntry, error) {
	if t.maxInput > 0 && uint64(len(unit.Text)) > t.maxInput {
		err := fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(unit.Text), t.maxInput)
		scope.Error(diag.StageDecode, nil, "%v", err)

		return "", nil, &UnitError{Unit: unit.Name, Stage: diag.StageDecode, Err: err}
	}

	var root *dump.Node

	err := t.stage(ctx, unit.Name, diag.StageDecode, func() error {
		var decodeErr error

		root, decodeErr = t.decoder.Decode(unit.Text)

		return decodeErr
	})
	if err != nil {
		scope.Error(diag.StageDecode, malformedRange(err), "%v", err)

		return "", nil, &UnitError{Unit: unit.Name, Stage: diag.StageDecode, Err: err}
	}

	var file *source.File

	err = t.stage(ctx, unit.Name, diag.StageBuild, func() error {
		var buildErr error

		file, buildErr = source.Build(root)

		return buildErr
	})
	if err != nil {
		scope.Error(diag.StageBuild, errorRange(err), "%v", err)

		return "", nil, &UnitError{Unit: unit.Name, Stage: diag.StageBuild, Err: err}
	}

	var lowered *target.File

	err = t.stage(ctx, unit.Name, diag.StageLower, func() error {
		lowerer := lower.Lowerer{}
		if t.templates != nil {
			lowerer.Templates = &tracedTemplates{ctx: ctx, inner: t.templates, tracer: t.tracer, metrics: t.metrics}
		}

		var lowerErr error

		lowered, lowerErr = lowerer.File(file)

		return lowerErr
	})
	if err != nil {
		scope.Error(diag.StageLower, errorRange(err), "%v", err)

		return "", nil, &UnitError{Unit: unit.Name, Stage: diag.StageLower, Err: err}
	}

	_ = t.stage(ctx, unit.Name, diag.StagePass, func() error {
		lowered = t.runPasses(ctx, lowered, scope)

		return nil
	})

	var out codegen.Result

	_ = t.stage(ctx, unit.Name, diag.StageCodegen, func() error {
		out = codegen.Generate(lowered, t.indent)

		return nil
	})

	return out.Text, out.Map, nil
}

// stage runs fn inside a span named after the stage and logs its duration.
func (t *Transpiler) stage(ctx context.Context, unit string, stage diag.Stage, fn func() error) error {
	_, span := t.tracer.Start(ctx, "gryphon."+string(stage), trace.WithAttributes(
		attribute.String("stage.name", string(stage)),
	))
	defer span.End()

	start := time.Now()
	err := fn()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage)+" failed")
	}

	t.logger.DebugContext(ctx, "stage done",
		slog.String("unit", unit), slog.String("stage", string(stage)), slog.Duration("duration", time.Since(start)))

	return err
}

func (t *Transpiler) runPasses(ctx context.Context, file *target.File, reporter diag.Reporter) *target.File {
	for _, pass := range t.pipeline.Passes() {
		_, span := t.passTracer.Start(ctx, observability.SpanPassRun, trace.WithAttributes(
			attribute.String("pass.name", pass.Name()),
		))

		file = pass.Run(file, reporter)

		span.End()
	}

	return file
}

// malformedRange points a decode diagnostic at the failure position inside
// the dump text.
func malformedRange(err error) *dump.Range {
	var malformed *dump.MalformedTreeError
	if !errors.As(err, &malformed) {
		return nil
	}

	return &dump.Range{
		StartLine: malformed.At.Line,
		StartCol:  malformed.At.Column,
		EndLine:   malformed.At.Line,
		EndCol:    malformed.At.Column,
	}
}

// errorRange returns the source range a build or lower error points at.
func errorRange(err error) *dump.Range {
	var (
		unsupported *source.UnsupportedConstructError
		missing     *source.MissingAttributeError
		unlowered   *lower.UnsupportedNodeError
	)

	switch {
	case errors.As(err, &unsupported):
		return unsupported.Range
	case errors.As(err, &missing):
		return missing.Range
	case errors.As(err, &unlowered):
		return unlowered.Range
	}

	return nil
}

// tracedTemplates counts and traces every template lookup of one unit.
type tracedTemplates struct {
	ctx     context.Context //nolint:containedctx // lower.Templates has no context parameter.
	inner   lower.Templates
	tracer  trace.Tracer
	metrics *observability.TranspileMetrics
}

func (tt *tracedTemplates) Apply(candidate target.Expr) (target.Expr, bool) {
	_, span := tt.tracer.Start(tt.ctx, observability.SpanTemplateMatch)
	defer span.End()

	replaced, ok := tt.inner.Apply(candidate)

	span.SetAttributes(attribute.Bool("template.hit", ok))
	tt.metrics.RecordTemplate(tt.ctx, ok)

	return replaced, ok
}
