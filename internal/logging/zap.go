package logging

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap.SugaredLogger to Logger. Key-value args map onto
// zap's "w" methods, so the call sites stay identical to the slog backend.
type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

// NewZapLoggerTo builds a JSON zap logger writing to w at the given level.
func NewZapLoggerTo(w io.Writer, level string) *ZapLogger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapLevel(level))
	return NewZapLogger(zap.New(core))
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *ZapLogger) Debug(_ context.Context, msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z *ZapLogger) Info(_ context.Context, msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) { z.s.Errorw(msg, args...) }

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{s: z.s.With(args...)}
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.s.Sync()
}
