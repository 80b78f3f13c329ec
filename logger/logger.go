package logger

import (
	"context"
	"log/slog"
)

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// LogFunc is a single logger function that handles all levels
type LogFunc func(level LogLevel, msg string, keyvals ...interface{})

// Discard is a LogFunc that drops every message
func Discard(LogLevel, string, ...interface{}) {}

// Logger wraps a LogFunc with per-level helpers. The zero value
// discards everything.
type Logger struct {
	fn LogFunc
}

// New returns a Logger writing to fn. A nil fn discards.
func New(fn LogFunc) Logger {
	return Logger{fn: fn}
}

func (l Logger) log(level LogLevel, msg string, keyvals ...interface{}) {
	if l.fn == nil {
		return
	}
	l.fn(level, msg, keyvals...)
}

// Debug logs a message at debug level
func (l Logger) Debug(msg string, keyvals ...interface{}) {
	l.log(DebugLevel, msg, keyvals...)
}

// Warn logs a recovered failure
func (l Logger) Warn(msg string, keyvals ...interface{}) {
	l.log(WarnLevel, msg, keyvals...)
}

// Error logs a message at error level
func (l Logger) Error(msg string, keyvals ...interface{}) {
	l.log(ErrorLevel, msg, keyvals...)
}

// Slog adapts a structured logger to a LogFunc. A nil logger uses
// slog.Default().
func Slog(l *slog.Logger) LogFunc {
	if l == nil {
		l = slog.Default()
	}
	return func(level LogLevel, msg string, keyvals ...interface{}) {
		l.Log(context.Background(), slogLevel(level), msg, keyvals...)
	}
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	}
	return slog.LevelInfo
}
