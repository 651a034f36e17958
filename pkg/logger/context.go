package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	fieldsKey ctxKey = "fields"
)

// With returns a new context that includes a logger with fields. The fields
// are also kept on their own so Attach can apply them to another logger.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	ctx = context.WithValue(ctx, loggerKey, l)
	return context.WithValue(ctx, fieldsKey, append(Fields(ctx), fields...))
}

// From returns the logger stored in context, or default if missing.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}

// Fields returns a copy of the request-scoped fields collected by With.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).([]any)
	return append([]any(nil), fields...)
}

// Attach returns base carrying the request-scoped fields of ctx, such as the
// trace id and the acting user. base is returned as is when there are none.
func Attach(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		return From(ctx)
	}
	fields := Fields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
