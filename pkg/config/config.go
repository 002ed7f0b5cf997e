// Package config loads and validates the codefix configuration from a YAML
// file and CODEFIX_ environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// Sentinel validation errors.
var (
	ErrInvalidConcurrency = errors.New("analysis concurrency must be positive")
	ErrInvalidTimeout     = errors.New("analysis timeout must not be negative")
	ErrInvalidFileSize    = errors.New("invalid max file size")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidSeverity    = errors.New("invalid rule severity")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrUnknownRule        = errors.New("configuration names an unknown rule")
)

const envPrefix = "CODEFIX"

// FileName is the configuration file looked up in the working directory.
const FileName = ".codefix.yaml"

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Config holds all configuration for codefix.
type Config struct {
	Rules     map[string]RuleConfig `mapstructure:"rules"`
	Analysis  AnalysisConfig        `mapstructure:"analysis"`
	Logging   LoggingConfig         `mapstructure:"logging"`
	Output    OutputConfig          `mapstructure:"output"`
	Metrics   MetricsConfig         `mapstructure:"metrics"`
	Telemetry TelemetryConfig       `mapstructure:"telemetry"`
}

// RuleConfig overrides one rule. Rule ids are matched case-insensitively.
type RuleConfig struct {
	Enabled  *bool  `mapstructure:"enabled"`
	Severity string `mapstructure:"severity"`
}

// AnalysisConfig holds analysis-specific configuration.
type AnalysisConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFileSize string        `mapstructure:"max_file_size"`
	Concurrency int           `mapstructure:"concurrency"`
}

// MaxFileSizeBytes parses MaxFileSize, e.g. "1MB" or "512 KiB".
func (a AnalysisConfig) MaxFileSizeBytes() (uint64, error) {
	n, err := humanize.ParseBytes(a.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFileSize, a.MaxFileSize)
	}

	return n, nil
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig controls how diagnostics are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// Textfile is a Prometheus textfile path written at exit.
	Textfile string `mapstructure:"textfile"`
}

// TelemetryConfig holds OTLP export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Insecure     bool    `mapstructure:"insecure"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

// LoadConfig loads configuration from configPath, or from FileName in the
// working directory when configPath is empty, then from the environment.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.concurrency", DefaultConcurrency)
	viperCfg.SetDefault("analysis.timeout", DefaultTimeout.String())
	viperCfg.SetDefault("analysis.max_file_size", DefaultMaxFileSize)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)

	viperCfg.SetDefault("metrics.textfile", "")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.insecure", false)
	viperCfg.SetDefault("telemetry.debug_trace", false)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Analysis.Concurrency <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, config.Analysis.Concurrency)
	}

	if config.Analysis.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.Analysis.Timeout)
	}

	if _, err := config.Analysis.MaxFileSizeBytes(); err != nil {
		return err
	}

	if !slices.Contains(logLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if f := config.Logging.Format; f != FormatText && f != FormatJSON {
		return fmt.Errorf("%w: logging.format %q", ErrInvalidFormat, f)
	}

	if f := config.Output.Format; f != FormatText && f != FormatJSON && f != FormatTable {
		return fmt.Errorf("%w: output.format %q", ErrInvalidFormat, f)
	}

	if r := config.Telemetry.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, r)
	}

	for id, rc := range config.Rules {
		if rc.Severity == "" {
			continue
		}

		if _, err := rule.ParseSeverity(rc.Severity); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidSeverity, id, err)
		}
	}

	return nil
}

// Rule returns the override for id, if any.
func (c *Config) Rule(id string) (RuleConfig, bool) {
	for k, rc := range c.Rules {
		if strings.EqualFold(k, id) {
			return rc, true
		}
	}

	return RuleConfig{}, false
}

// ApplyRules returns a copy of reg without disabled rules and with
// severities overridden. Overrides for rules reg does not hold fail.
func (c *Config) ApplyRules(reg *rule.Registry) (*rule.Registry, error) {
	for id := range c.Rules {
		if !hasRule(reg, id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}

	return reg.Filter(func(d rule.Descriptor) (rule.Descriptor, bool) {
		rc, ok := c.Rule(d.ID)
		if !ok {
			return d, true
		}

		if rc.Enabled != nil && !*rc.Enabled {
			return d, false
		}

		if sev, err := rule.ParseSeverity(rc.Severity); rc.Severity != "" && err == nil {
			d.Severity = sev
		}

		return d, true
	}), nil
}

func hasRule(reg *rule.Registry, id string) bool {
	for _, d := range reg.Descriptors() {
		if strings.EqualFold(d.ID, id) {
			return true
		}
	}

	return false
}
