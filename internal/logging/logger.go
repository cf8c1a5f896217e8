// Package logging defines the structured-logging interface used across the
// client. Implementations wrap log/slog or zap.
package logging

import (
	"context"
	"io"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "session established", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger writing to w. format selects the backend: text and
// json use slog, zap uses zap's JSON encoder. Unknown formats fall back to
// text. level is one of debug, info, warn, error.
func New(format, level string, w io.Writer) Logger {
	switch format {
	case FormatZap:
		return NewZapLoggerTo(w, level)
	case FormatJSON:
		return NewSlogLoggerTo(w, true, level)
	default:
		return NewSlogLoggerTo(w, false, level)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLoggerTo(io.Discard, false, "error")
}
