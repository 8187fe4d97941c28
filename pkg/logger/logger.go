// Package logger configures structured logging for the Flex tools.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level   LogLevel
	Format  string // "text" or "json"
	Output  io.Writer
	LogFile string // appended to instead of Output when set
}

// DefaultConfig logs warnings and errors as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

// ParseLevel maps debug, info, warn or error to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logger: unknown level %q", s)
	}
}

var logFile *os.File

// New builds a logger from cfg without installing it.
func New(cfg Config) (*slog.Logger, error) {
	switch cfg.Format {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", cfg.LogFile, err)
		}
		if logFile != nil {
			logFile.Close()
		}
		logFile = file
		output = file
	}

	opts := &slog.HandlerOptions{Level: toSlogLevel(cfg.Level)}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(output, opts)), nil
	}
	return slog.New(slog.NewTextHandler(output, opts)), nil
}

// Init installs a logger built from cfg as the slog default.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	return nil
}

// Close releases the log file opened by Init, if any.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Pipeline helpers

// LogPhase records how long a pipeline phase took.
func LogPhase(l *slog.Logger, phase string, started time.Time, args ...any) {
	if l == nil {
		l = slog.Default()
	}
	attrs := append([]any{"phase", phase, "elapsed", time.Since(started)}, args...)
	l.Debug("phase complete", attrs...)
}
