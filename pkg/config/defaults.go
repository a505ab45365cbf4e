// Package config provides YAML-based project configuration for gryphon.
package config

// Output defaults.
const (
	DefaultOutputIndent      = "    "
	DefaultOutputPositionMap = false
)

// Decoder defaults.
const (
	DefaultDecoderMaxIterations = 1 << 22
	DefaultDecoderMaxInputSize  = "64MB"
)

// Template defaults.
const (
	DefaultTemplatesDisableBuiltin = false
)

// Batch defaults. Zero workers means one per CPU.
const (
	DefaultBatchWorkers         = 0
	DefaultBatchContinueOnError = false
)

// Logging defaults.
const (
	DefaultLoggingLevel = "warn"
	DefaultLoggingJSON  = false
)

// Telemetry defaults. An empty endpoint disables export.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetrySampleRatio  = 0.0
	DefaultTelemetryTraceVerbose = false
)
