package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".gryphon"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for gryphon settings.
const envPrefix = "GRYPHON"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Indent:      DefaultOutputIndent,
			PositionMap: DefaultOutputPositionMap,
		},
		Decoder: DecoderConfig{
			MaxIterations: DefaultDecoderMaxIterations,
			MaxInputSize:  DefaultDecoderMaxInputSize,
		},
		Templates: TemplatesConfig{
			Files:          []string{},
			DisableBuiltin: DefaultTemplatesDisableBuiltin,
		},
		Batch: BatchConfig{
			Workers:         DefaultBatchWorkers,
			ContinueOnError: DefaultBatchContinueOnError,
		},
		Logging: LoggingConfig{
			Level: DefaultLoggingLevel,
			JSON:  DefaultLoggingJSON,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultTelemetryOTLPEndpoint,
			OTLPInsecure: DefaultTelemetryOTLPInsecure,
			SampleRatio:  DefaultTelemetrySampleRatio,
			TraceVerbose: DefaultTelemetryTraceVerbose,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("output.indent", DefaultOutputIndent)
	viperCfg.SetDefault("output.position_map", DefaultOutputPositionMap)

	viperCfg.SetDefault("decoder.max_iterations", DefaultDecoderMaxIterations)
	viperCfg.SetDefault("decoder.max_input_size", DefaultDecoderMaxInputSize)

	viperCfg.SetDefault("templates.files", []string{})
	viperCfg.SetDefault("templates.disable_builtin", DefaultTemplatesDisableBuiltin)

	viperCfg.SetDefault("batch.workers", DefaultBatchWorkers)
	viperCfg.SetDefault("batch.continue_on_error", DefaultBatchContinueOnError)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.trace_verbose", DefaultTelemetryTraceVerbose)
}
