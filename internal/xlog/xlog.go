// Package xlog wires the engine's structured logging. It fronts
// github.com/luxfi/log (the teacher lineage's own logging dependency) with
// a leveled gate, and keeps a separate go.uber.org/zap sink for the kind of
// structured diagnostic that is worth capturing as a discrete event rather
// than a log line: a recovered worker panic.
package xlog

import (
	"fmt"
	"log/slog"
	"strings"

	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// Logger is a thin, level-gated wrapper around a luxlog.Logger. Components
// in this module hold a *Logger rather than a bare luxlog.Logger so that
// --log-level can suppress Debug output without depending on the exact
// handler-configuration surface of the upstream package.
type Logger struct {
	base  luxlog.Logger
	level slog.Level
}

// New returns a Logger rooted at component, filtering below level.
func New(component string, level slog.Level) *Logger {
	return &Logger{
		base:  luxlog.New("component", component),
		level: level,
	}
}

// With returns a child logger carrying additional key/value context.
func (l *Logger) With(ctx ...interface{}) *Logger {
	return &Logger{base: l.base.With(ctx...), level: l.level}
}

func (l *Logger) Debug(msg string, ctx ...interface{}) {
	if l.level <= slog.LevelDebug {
		l.base.Debug(msg, ctx...)
	}
}

func (l *Logger) Info(msg string, ctx ...interface{}) {
	if l.level <= slog.LevelInfo {
		l.base.Info(msg, ctx...)
	}
}

func (l *Logger) Warn(msg string, ctx ...interface{}) {
	if l.level <= slog.LevelWarn {
		l.base.Warn(msg, ctx...)
	}
}

func (l *Logger) Error(msg string, ctx ...interface{}) {
	if l.level <= slog.LevelError {
		l.base.Error(msg, ctx...)
	}
}

// ParseLevel maps a --log-level flag value to an slog.Level, defaulting to
// Info for anything unrecognized.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PanicRecorder captures recovered worker panics as structured events via a
// dedicated zap logger, independent of the human-readable luxlog stream.
// Mirrors the zap usage in the teacher's plugin/evm/logger_adapter.go,
// applied here to the one place this engine recovers from a panic: a
// per-client worker goroutine (see internal/dispatch).
type PanicRecorder struct {
	zl *zap.Logger
}

// NewPanicRecorder builds a production zap logger for panic capture.
func NewPanicRecorder() (*PanicRecorder, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("xlog: building panic recorder: %w", err)
	}
	return &PanicRecorder{zl: zl}, nil
}

// Recover logs a recovered panic value for the given client, with the
// panic's value and the client id as structured fields.
func (p *PanicRecorder) Recover(client uint16, recovered interface{}) {
	p.zl.Error("client worker panicked",
		zap.Uint16("client", client),
		zap.Any("panic", recovered),
	)
}

// Sync flushes the underlying zap logger.
func (p *PanicRecorder) Sync() {
	_ = p.zl.Sync()
}
