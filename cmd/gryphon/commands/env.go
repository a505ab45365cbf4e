// Package commands implements CLI command handlers for gryphon.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vinivendra/Gryphon-sub003/pkg/config"
	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
	"github.com/vinivendra/Gryphon-sub003/pkg/version"
)

// GlobalOptions holds the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

type telemetryInit func(observability.Config) (observability.Providers, error)

// environment is the per-invocation state built from config and flags.
type environment struct {
	cfg       *config.Config
	providers observability.Providers
}

func setupEnvironment(
	opts *GlobalOptions,
	mode observability.AppMode,
	initTelemetry telemetryInit,
	logOutput io.Writer,
) (*environment, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg, err := telemetryConfig(cfg, opts, mode)
	if err != nil {
		return nil, err
	}

	obsCfg.LogOutput = logOutput

	if initTelemetry == nil {
		initTelemetry = observability.Init
	}

	providers, err := initTelemetry(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &environment{cfg: cfg, providers: providers}, nil
}

func telemetryConfig(cfg *config.Config, opts *GlobalOptions, mode observability.AppMode) (observability.Config, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.TraceVerbose = cfg.Telemetry.TraceVerbose

	switch {
	case opts.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case opts.Quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg, nil
}

// close flushes telemetry. Shutdown failures are logged, not returned.
func (e *environment) close() {
	if e.providers.Shutdown == nil {
		return
	}

	err := e.providers.Shutdown(context.Background())
	if err != nil && e.providers.Logger != nil {
		e.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// newTranspiler builds a Transpiler from the loaded config.
func (e *environment) newTranspiler() (*transpiler.Transpiler, error) {
	catalogue, err := transpiler.LoadCatalogue(!e.cfg.Templates.DisableBuiltin, e.cfg.Templates.Files...)
	if err != nil {
		return nil, err
	}

	maxInput, err := e.cfg.MaxInputBytes()
	if err != nil {
		return nil, err
	}

	var metrics *observability.TranspileMetrics

	if e.providers.Meter != nil {
		metrics, err = observability.NewTranspileMetrics(e.providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	}

	return transpiler.New(transpiler.Config{
		Templates:      catalogue,
		TracerProvider: e.providers.Provider,
		Metrics:        metrics,
		Logger:         e.providers.Logger,
		Indent:         e.cfg.Output.Indent,
		MaxIterations:  e.cfg.Decoder.MaxIterations,
		MaxInputSize:   maxInput,
	}), nil
}
