package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromConfigValues builds a logger from the raw strings found in config files.
// Unknown levels fall back to info, unknown formats to console.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	if f := strings.ToLower(strings.TrimSpace(format)); f == "json" {
		cfg.Format = f
	}
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// CARESHELL_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// CARESHELL_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv("CARESHELL_LOG_LEVEL"), os.Getenv("CARESHELL_LOG_FORMAT"))
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
