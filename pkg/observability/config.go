// Package observability wires gryphon's traces, metrics and logs. Without an
// OTLP endpoint every provider is a no-op and only the logger produces output.
package observability

import (
	"io"
	"log/slog"
)

// AppMode tells logs and resources how the binary was launched.
type AppMode string

const (
	// ModeCLI transpiles a single unit.
	ModeCLI AppMode = "cli"
	// ModeBatch transpiles a directory of units.
	ModeBatch AppMode = "batch"
)

const defaultServiceName = "gryphon"

// Config is the telemetry setup of one invocation.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Environment tags logs and the trace resource, e.g. "ci". Optional.
	Environment string
	Mode        AppMode

	// OTLPEndpoint is a gRPC collector address such as "localhost:4317".
	// Empty disables export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the parent-based trace sampling ratio; zero samples
	// every trace.
	SampleRatio float64

	// TraceVerbose keeps per-pass and per-template spans.
	TraceVerbose bool

	LogLevel slog.Level
	LogJSON  bool

	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer
}

// DefaultConfig logs warnings to stderr and exports nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		Mode:        ModeCLI,
		LogLevel:    slog.LevelWarn,
	}
}
