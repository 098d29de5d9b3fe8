// Package types holds the logging helpers shared by the ucmlint packages.
package types

import (
	"context"
	"log/slog"
)

// LevelTrace sits one step below slog.LevelDebug. The cursor, parser and
// rules log every line, item and finding at this level.
const LevelTrace = slog.LevelDebug - 4

// Logger is an optional *slog.Logger. With a nil L every method is a
// no-op, so packages can log unconditionally.
type Logger struct {
	L *slog.Logger
}

// Enabled reports whether a record at level would be emitted.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(context.Background(), level)
}

// Log emits msg with attrs at level.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.Enabled(level) {
		l.L.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

// TraceEnabled guards attribute construction in per-item loops.
func (l *Logger) TraceEnabled() bool { return l.Enabled(LevelTrace) }

// Trace logs at LevelTrace.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) { l.Log(LevelTrace, msg, attrs...) }

// Component returns logger tagged with component=name, or nil when
// logging is disabled.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", name))
}
