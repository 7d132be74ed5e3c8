package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// ToContext stores the logger in the context.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in the context, or the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return global
	}

	if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok && l != nil {
		return l
	}

	return global
}

// WithName returns a context whose logger is named after a component.
// Nested calls produce dotted names, e.g. "timer-skill.monitor".
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// WithKV returns a context whose logger carries the given key-value pairs.
func WithKV(ctx context.Context, kvs ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(kvs...))
}

// WithFields is an alias of WithKV for zap.Field values.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ToContext(ctx, FromContext(ctx).Desugar().With(fields...).Sugar())
}
