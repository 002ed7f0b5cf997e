package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefix/internal/runner"
	"github.com/Sumatoshi-tech/codefix/pkg/config"
	"github.com/Sumatoshi-tech/codefix/pkg/engine"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/version"

	// Registers the built-in rules.
	_ "github.com/Sumatoshi-tech/codefix/pkg/rules"
)

// commonFlags are shared by every command that runs rules.
type commonFlags struct {
	configPath      string
	format          string
	noColor         bool
	metricsTextfile string
	logLevel        string
	concurrency     int
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: ./"+config.FileName+")")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text, table, or json (default from config)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file at exit")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, or error")
	cmd.Flags().IntVarP(&f.concurrency, "jobs", "j", 0, "Files analyzed in parallel (default from config)")
}

// session is the state one command invocation runs with.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	registry  *rule.Registry
	analyzer  *engine.Analyzer
}

func openSession(flags commonFlags, mode observability.AppMode) (*session, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	if err := flags.override(cfg); err != nil {
		return nil, err
	}

	if flags.noColor || !cfg.Output.Color {
		disableColor()
	}

	obsCfg, err := observabilityConfig(cfg, mode)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	s := &session{cfg: cfg, providers: providers}

	s.registry, err = cfg.ApplyRules(rule.Default)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	metrics, err := observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	s.analyzer = engine.New(s.registry,
		engine.WithLogger(providers.Logger),
		engine.WithMetrics(metrics),
		engine.WithTracer(providers.Tracer),
	)

	return s, nil
}

func (f commonFlags) override(cfg *config.Config) error {
	if f.format != "" {
		switch f.format {
		case runner.FormatText, runner.FormatTable, runner.FormatJSON:
			cfg.Output.Format = f.format
		default:
			return fmt.Errorf("%w: %q", config.ErrInvalidFormat, f.format)
		}
	}

	if f.metricsTextfile != "" {
		cfg.Metrics.Textfile = f.metricsTextfile
	}

	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}

	if f.concurrency < 0 {
		return fmt.Errorf("%w: %d", config.ErrInvalidConcurrency, f.concurrency)
	}

	if f.concurrency > 0 {
		cfg.Analysis.Concurrency = f.concurrency
	}

	return nil
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode) (observability.Config, error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsTextfile = cfg.Metrics.Textfile
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON

	return obsCfg, nil
}

// close flushes telemetry. A failed flush is logged, not returned.
func (s *session) close() {
	if err := s.providers.Shutdown(context.Background()); err != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// runner builds a file runner from the analysis settings.
func (s *session) runner() *runner.Runner {
	return runner.New(s.analyzer, s.providers.Logger, runner.Options{
		Concurrency: s.cfg.Analysis.Concurrency,
		Timeout:     s.cfg.Analysis.Timeout,
		Tracer:      s.providers.Tracer,
	})
}

func (s *session) discover(paths []string) ([]runner.File, error) {
	maxSize, err := s.cfg.Analysis.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	return runner.Discover(paths, maxSize, s.providers.Logger)
}

func disableColor() {
	if !color.NoColor {
		color.NoColor = true
	}
}
