// Package diag collects translation errors and warnings and renders them with
// source snippets.
package diag

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

// Stage identifies which pipeline phase produced the diagnostic.
type Stage string

// Pipeline stages.
const (
	StageDecode   Stage = "decode"
	StageBuild    Stage = "build"
	StageLower    Stage = "lower"
	StageTemplate Stage = "template"
	StagePass     Stage = "pass"
	StageCodegen  Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported problem. Range points at the original source
// when known. Unit names the compilation unit.
type Diagnostic struct {
	Range    *dump.Range
	Unit     string
	Stage    Stage
	Severity Severity
	Message  string
}

// String renders "unit:line:col: severity: message".
func (d Diagnostic) String() string {
	where := d.Unit
	if d.Range.IsValid() {
		file := d.Range.File
		if file == "" {
			file = d.Unit
		}

		where = fmt.Sprintf("%s:%d:%d", file, d.Range.StartLine, d.Range.StartCol)
	}

	if where == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s", where, d.Severity, d.Message)
}

// Reporter receives diagnostics from pipeline stages.
type Reporter interface {
	Warn(stage Stage, rng *dump.Range, format string, args ...any)
	Error(stage Stage, rng *dump.Range, format string, args ...any)
}

// Collector is an append-only, concurrency-safe diagnostics sink. The zero
// value is ready to use. Reset it between independent runs.
type Collector struct {
	items []Diagnostic
	mu    sync.Mutex
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Warn records a translation warning.
func (c *Collector) Warn(stage Stage, rng *dump.Range, format string, args ...any) {
	c.Add(Diagnostic{
		Stage:    stage,
		Severity: SeverityWarning,
		Range:    rng,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Error records an error.
func (c *Collector) Error(stage Stage, rng *dump.Range, format string, args ...any) {
	c.Add(Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Range:    rng,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns a snapshot of everything recorded so far.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// Warnings returns the recorded warnings.
func (c *Collector) Warnings() []Diagnostic {
	return c.filter(SeverityWarning)
}

// Errors returns the recorded errors.
func (c *Collector) Errors() []Diagnostic {
	return c.filter(SeverityError)
}

func (c *Collector) filter(severity Severity) []Diagnostic {
	var out []Diagnostic

	for _, d := range c.Diagnostics() {
		if d.Severity == severity {
			out = append(out, d)
		}
	}

	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Reset drops every recorded diagnostic.
func (c *Collector) Reset() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Scoped returns a sink that stamps unit onto every diagnostic before
// forwarding it to c.
func (c *Collector) Scoped(unit string) *Scope {
	return &Scope{parent: c, unit: unit}
}

// Scope forwards diagnostics to a Collector, tagging them with a unit name.
type Scope struct {
	parent *Collector
	unit   string
}

// Warn records a warning for the scope's unit.
func (s *Scope) Warn(stage Stage, rng *dump.Range, format string, args ...any) {
	s.parent.Add(Diagnostic{
		Unit:     s.unit,
		Stage:    stage,
		Severity: SeverityWarning,
		Range:    rng,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Error records an error for the scope's unit.
func (s *Scope) Error(stage Stage, rng *dump.Range, format string, args ...any) {
	s.parent.Add(Diagnostic{
		Unit:     s.unit,
		Stage:    stage,
		Severity: SeverityError,
		Range:    rng,
		Message:  fmt.Sprintf(format, args...),
	})
}
