package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger configuration.
type Config struct {
	Level   slog.Level
	Format  Format
	Service string
	Output  io.Writer
}

// FromEnv builds the logger configuration for a binary.
//
// LOG_LEVEL accepts debug, info, warn or error; a non-empty DEBUG forces
// debug. LOG_FORMAT picks json or text and otherwise defaults to json
// inside Lambda and text on a terminal. Unknown values fall back to the
// defaults and are reported through the returned error.
func FromEnv(service string) (Config, error) {
	cfg := Config{
		Level:   slog.LevelInfo,
		Format:  FormatText,
		Service: service,
		Output:  os.Stderr,
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		cfg.Format = FormatJSON
	}

	var err error
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, lerr := ParseLevel(v)
		if lerr != nil {
			err = lerr
		} else {
			cfg.Level = level
		}
	}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}

	switch f := Format(strings.ToLower(os.Getenv("LOG_FORMAT"))); f {
	case "":
	case FormatJSON, FormatText:
		cfg.Format = f
	default:
		err = fmt.Errorf("unknown log format %q", f)
	}

	return cfg, err
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates a configured slog.Logger. Every record carries the service
// name when one is set.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Discard drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// WithComponent tags a logger with the component that owns it.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
