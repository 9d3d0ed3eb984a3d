package logger

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Field is a structured log attribute.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging interface services depend on.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// AppLogger implements Logger over slog. In non-dev environments records are
// also exported through the OpenTelemetry slog bridge.
type AppLogger struct {
	l *slog.Logger
}

func NewLogger(env string) *AppLogger {
	if env == "dev" || env == "test" {
		return &AppLogger{
			l: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})),
		}
	}
	return &AppLogger{l: otelslog.NewLogger("mentorhub")}
}

func (a *AppLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	a.l.DebugContext(ctx, msg, attrs(fields)...)
}

func (a *AppLogger) Info(ctx context.Context, msg string, fields ...Field) {
	a.l.InfoContext(ctx, msg, attrs(fields)...)
}

func (a *AppLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	a.l.WarnContext(ctx, msg, attrs(fields)...)
}

func (a *AppLogger) Error(ctx context.Context, msg string, fields ...Field) {
	a.l.ErrorContext(ctx, msg, attrs(fields)...)
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *AppLogger {
	return &AppLogger{l: slog.New(slog.DiscardHandler)}
}
