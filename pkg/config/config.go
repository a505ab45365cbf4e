package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

// Config is the top-level configuration struct for gryphon.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Decoder   DecoderConfig   `mapstructure:"decoder"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig controls the generated Kotlin.
type OutputConfig struct {
	Indent      string `mapstructure:"indent"`
	PositionMap bool   `mapstructure:"position_map"`
}

// DecoderConfig bounds the tree-dump decoder.
type DecoderConfig struct {
	MaxIterations int    `mapstructure:"max_iterations"`
	MaxInputSize  string `mapstructure:"max_input_size"`
}

// TemplatesConfig selects the template catalogues. Files are loaded after
// the built-in catalogue, so built-in templates win ties.
type TemplatesConfig struct {
	Files          []string `mapstructure:"files"`
	DisableBuiltin bool     `mapstructure:"disable_builtin"`
}

// BatchConfig holds multi-unit run knobs.
type BatchConfig struct {
	Workers         int  `mapstructure:"workers"`
	ContinueOnError bool `mapstructure:"continue_on_error"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	TraceVerbose bool    `mapstructure:"trace_verbose"`
}

// Sentinel validation errors.
var (
	// ErrInvalidIndent indicates the indent mixes characters other than spaces and tabs.
	ErrInvalidIndent = errors.New("output.indent must contain only spaces or tabs")
	// ErrInvalidMaxIterations indicates a negative decoder step cap.
	ErrInvalidMaxIterations = errors.New("decoder.max_iterations must be non-negative")
	// ErrInvalidMaxInputSize indicates the size string cannot be parsed.
	ErrInvalidMaxInputSize = errors.New("decoder.max_input_size must be a byte size such as 64MB")
	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("batch.workers must be non-negative")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
	// ErrInvalidSampleRatio indicates a sampling ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks all configuration values.
func (c *Config) Validate() error {
	if strings.Trim(c.Output.Indent, " \t") != "" {
		return fmt.Errorf("%w: %q", ErrInvalidIndent, c.Output.Indent)
	}

	if c.Decoder.MaxIterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxIterations, c.Decoder.MaxIterations)
	}

	if _, err := c.MaxInputBytes(); err != nil {
		return err
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Batch.Workers)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// MaxInputBytes parses decoder.max_input_size. An empty value means no limit.
func (c *Config) MaxInputBytes() (uint64, error) {
	if c.Decoder.MaxInputSize == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.Decoder.MaxInputSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxInputSize, c.Decoder.MaxInputSize)
	}

	return size, nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelWarn, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
