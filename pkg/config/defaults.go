package config

import "time"

// Analysis defaults.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 5 * time.Minute
	DefaultMaxFileSize = "1MB"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = FormatText
)

// Output defaults.
const (
	DefaultOutputFormat = FormatText
	DefaultOutputColor  = true
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
	DefaultEnvironment = ""
)

// Formats accepted by logging.format and output.format.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)
