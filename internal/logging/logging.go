package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Provides a simple logger interface for the application

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options selects level and output format for New.
type Options struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json"
	Writer io.Writer
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func (s SlogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s SlogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s SlogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s SlogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// With returns a logger that adds args to every record.
func (s SlogLogger) With(args ...any) SlogLogger { return SlogLogger{l: s.l.With(args...)} }

// Slog exposes the underlying logger.
func (s SlogLogger) Slog() *slog.Logger { return s.l }

// New builds a slog-backed logger. Unset fields fall back to info/text on stderr.
func New(opts Options) (SlogLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return SlogLogger{}, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		return SlogLogger{}, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return SlogLogger{l: slog.New(h)}, nil
}

// Discard returns a logger that drops everything.
func Discard() SlogLogger {
	return SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
