// Package observability wires OpenTelemetry tracing and metrics and the
// structured logger used by the engine and the codefix CLI.
package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// AppMode identifies which codefix command is running.
type AppMode string

// Application modes.
const (
	ModeCheck AppMode = "check"
	ModeFix   AppMode = "fix"
	ModeRules AppMode = "rules"
	ModeTest  AppMode = "test"
)

const (
	defaultServiceName        = "codefix"
	defaultShutdownTimeoutSec = 5
)

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

// Config holds all observability settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables
	// OTLP export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// MetricsTextfile, when set, makes Shutdown write every metric in
	// Prometheus text format to this path, for node_exporter's textfile
	// collector. It takes precedence over OTLP metric export.
	MetricsTextfile string

	// DebugTrace forces every trace to be sampled.
	DebugTrace  bool
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	ShutdownTimeoutSec int
}

// DefaultConfig returns the zero-export configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCheck,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
