// Package applog configures the application's structured logger. mqttui
// writes its own diagnostics to stderr via log/slog so that stdout stays
// reserved for the non-interactive subcommands' message output (spec §6).
//
// Adapted from github.com/getmockd/mockd's pkg/logging, trimmed to the
// Config/New/ParseLevel/ParseFormat surface mqttui actually needs (no Loki
// or multi-writer fan-out, since the TUI has no log-shipping story).
package applog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is the minimum severity a logger emits.
type Level = slog.Level

// Log levels, re-exported from slog for callers that don't want to import
// it directly.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog.Handler implementation.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger construction parameters.
type Config struct {
	Level Level
	Format Format

	// Output defaults to os.Stderr when nil.
	Output io.Writer

	AddSource bool
}

// DefaultConfig returns mqttui's defaults: info level, text format, stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// New builds a slog.Logger from cfg.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return slog.New(handler)
}

// Nop returns a logger that discards everything, for use in tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a level string case-insensitively. Unrecognized input
// (including the empty string) yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat parses a format string case-insensitively. Unrecognized
// input yields FormatText.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}
