// Package logging builds the process logger and a TelemetryHook that logs
// dispatch start and end.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/petal-labs/voiceprint/core"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config configures New.
type Config struct {
	Level  string
	Format Format
	Writer io.Writer

	// NoColor disables ANSI colours in console output.
	NoColor bool
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger for cfg. Console output goes through a zerolog
// ConsoleWriter; JSON output uses the slog JSON handler.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	switch cfg.Format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case FormatConsole, "":
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp, NoColor: cfg.NoColor}
		zl := zerolog.New(output).With().Timestamp().Logger()
		return slog.New(zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: level})), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: want console or json", cfg.Format)
	}
}

// Hook logs dispatch lifecycle events. Events never carry prompt text,
// generated text or credentials.
type Hook struct {
	logger *slog.Logger
}

// NewHook returns a Hook writing to logger, or slog.Default when nil.
func NewHook(logger *slog.Logger) *Hook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hook{logger: logger}
}

// OnRequestStart logs at debug level.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	h.logger.Debug("dispatch start",
		"session", e.Session,
		"operation", e.Operation,
		"provider", e.Provider,
		"model", e.Model,
	)
}

// OnRequestEnd logs successes at info and failures at warn.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	attrs := []any{
		"session", e.Session,
		"operation", e.Operation,
		"provider", e.Provider,
		"model", e.Model,
		"duration", e.Duration(),
	}
	if e.Err != nil {
		h.logger.Warn("dispatch failed", append(attrs, "kind", e.Kind, "error", e.Err)...)
		return
	}
	h.logger.Info("dispatch complete", append(attrs, "chars", e.Chars)...)
}

var _ core.TelemetryHook = (*Hook)(nil)
