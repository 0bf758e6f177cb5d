package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// LogFileName is the name of the live log file.
const LogFileName = "careshell.log"

// FileConfig configures the rotating log file.
type FileConfig struct {
	Enabled       bool
	Dir           string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
	WriteToStderr bool
}

// NewWithFile builds a logger that also writes JSON lines to a rotating
// file. The returned cleanup closes the file. When the file cannot be
// opened the logger falls back to cfg's output and the error is returned.
func NewWithFile(cfg Config, fc FileConfig) (zerolog.Logger, func(), error) {
	noop := func() {}
	if !fc.Enabled {
		return New(cfg), noop, nil
	}

	rotator, err := NewLogRotator(fc.Dir, LogFileName, fc.MaxSizeMB, fc.MaxBackups, fc.MaxAgeDays, fc.Compress)
	if err != nil {
		return New(cfg), noop, err
	}

	writers := []io.Writer{rotator}
	if fc.WriteToStderr {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		var console io.Writer = out
		if cfg.Format == "console" {
			console = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
		}
		writers = append(writers, console)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, func() { _ = rotator.Close() }, nil
}
