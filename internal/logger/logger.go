// Package logger configures the application's structured logging.
//
// It uses *ZeroLog*: JSON output for log pipelines, or a human-friendly
// console writer for local development.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/rs/zerolog"
)

// New builds the application logger from the observability config.
//
// Every entry carries a timestamp plus the service and environment fields.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = w
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}
