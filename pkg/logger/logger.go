// Package logger provides a zap-based application logger.
package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity written by a Logger.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace id from the context, or "" when there is none.
type TraceIDFn func(ctx context.Context) string

// Logger writes JSON entries tagged with the service name and, when
// available, the active trace id.
type Logger struct {
	sugar   *zap.SugaredLogger
	traceID TraceIDFn
}

// New builds a Logger writing to w at the given level.
func New(w io.Writer, level Level, service string, traceID TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level)
	base := zap.New(core).With(zap.String("service", service))
	return &Logger{sugar: base.Sugar(), traceID: traceID}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// ParseLevel maps a config value to a Level, falling back to info.
func ParseLevel(value string) Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return LevelInfo
	}
	return lvl
}

func (l *Logger) with(ctx context.Context, keyvals []any) []any {
	if l.traceID == nil || ctx == nil {
		return keyvals
	}
	if id := l.traceID(ctx); id != "" {
		return append(keyvals, "trace_id", id)
	}
	return keyvals
}

// Debug logs msg with keyvals at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, keyvals ...any) {
	l.sugar.Debugw(msg, l.with(ctx, keyvals)...)
}

// Info logs msg with keyvals at info level.
func (l *Logger) Info(ctx context.Context, msg string, keyvals ...any) {
	l.sugar.Infow(msg, l.with(ctx, keyvals)...)
}

// Warn logs msg with keyvals at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, keyvals ...any) {
	l.sugar.Warnw(msg, l.with(ctx, keyvals)...)
}

// Error logs msg with keyvals at error level.
func (l *Logger) Error(ctx context.Context, msg string, keyvals ...any) {
	l.sugar.Errorw(msg, l.with(ctx, keyvals)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
