package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey int

const (
	fieldsKey contextKey = iota
)

type ZapLogger struct {
	inner *zap.Logger
}

func NewZapLogger(level zapcore.Level) (*ZapLogger, error) {
	s := defaultSettings(zap.NewAtomicLevelAt(level))
	logger, err := s.config.Build(s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{
		inner: logger,
	}, nil
}

func WithContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing := fieldsFromCtx(ctx)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey, merged)
}

func fieldsFromCtx(ctx context.Context) []zap.Field {
	fieldsVal := ctx.Value(fieldsKey)
	if fieldsVal == nil {
		return nil
	}
	fields, ok := fieldsVal.([]zap.Field)
	if !ok {
		return nil
	}
	return fields
}

func (l *ZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Debug(msg, append(fieldsFromCtx(ctx), fields...)...)
}

func (l *ZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Info(msg, append(fieldsFromCtx(ctx), fields...)...)
}

func (l *ZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Warn(msg, append(fieldsFromCtx(ctx), fields...)...)
}

func (l *ZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Error(msg, append(fieldsFromCtx(ctx), fields...)...)
}

func (l *ZapLogger) Sync() error {
	return l.inner.Sync() //nolint:wrapcheck // unnecessary
}
