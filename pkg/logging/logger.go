// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
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

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
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
//   - Single-fetch failures in the best-effort entry point
//   - Worker completion stats (worker id, tasks processed)
//   - Cache key operations
//
// Info: Normal operation events
//   - Cookie file load attempts
//   - Batch completion (url count, fetched count, duration)
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Batch waits that timed out with fetches still in flight
//   - Page cache read/write failures (fetch falls through to the network)
//   - Cookie jar construction problems (fetch proceeds without cookies)
//
// Error: Error conditions requiring attention
//   - Fetch task failures inside a batch (transport or status)
//   - Cookie file load failures (falling back to configured cookies)
//   - Configuration errors
//
// Context Fields:
//   - url: Fetched URL
//   - path: Cookie file path
//   - status_code: HTTP status code
//   - duration: Request or batch duration
//   - urls / fetched: Batch size and successful result count
//   - worker_id / tasks_processed: Pool worker stats
//   - wait_timeout: Batch wait bound
