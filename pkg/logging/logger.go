// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Component names used for the "component" field.
const (
	ComponentPagination = "pagination"
	ComponentPager      = "pager"
	ComponentClient     = "graphql-client"
	ComponentCache      = "cache"
	ComponentCLI        = "relay-pager"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// ConfigFromEnv builds a Config from LOG_LEVEL and LOG_PRETTY, falling back
// to DefaultConfig for unset or unparsable values. getenv is usually
// os.Getenv.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if level := getenv("LOG_LEVEL"); level != "" {
		cfg.Level = LogLevel(strings.ToLower(level))
	}
	if pretty, err := strconv.ParseBool(getenv("LOG_PRETTY")); err == nil {
		cfg.Pretty = pretty
	}
	return cfg
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Ledger changes (page appended or overwritten in place)
//   - Suppressed deliveries (merged output unchanged)
//   - Cache operations (hit/miss, key, TTL)
//
// Info: Normal operation events
//   - Pages fetched and merged outputs delivered
//   - Pager resets and refetches
//   - CLI startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Transport failures forwarded to the result handler
//   - Malformed pages rejected by the extractor
//   - Cache errors (fallback to the network)
//
// Error: Error conditions requiring attention
//   - Configuration errors
//   - Failed pagination runs in the CLI
//
// Context Fields:
//   - component: see the Component constants
//   - controller / pager: controller or pager name (also the metrics label)
//   - operation: GraphQL operation name
//   - cursor: end cursor of the page being recorded or requested
//   - pages: number of ledger slots, NoPage included
//   - source: cache or network
//   - status_code: HTTP status code
//   - error_class: client, server, network, cancelled, decode
//   - duration: request or fetch duration
