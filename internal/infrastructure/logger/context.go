package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	tenantIDKey
)

// WithContext returns a new context carrying the logger
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTenantID stores the tenant (company) ID in ctx
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetTenantID returns the tenant ID stored in ctx
func GetTenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}

// ContextLogger logs with the trace, request and tenant ids found in its context
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger for ctx.
// Usage: logger.L(ctx).Info("line confirmed", zap.String("line_id", id))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

func (cl *ContextLogger) enriched() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}
	if sc := trace.SpanContextFromContext(cl.ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if id := GetRequestID(cl.ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if id := GetTenantID(cl.ctx); id != "" {
		l = l.With(zap.String("tenant_id", id))
	}
	return l
}

// With creates a child ContextLogger with additional fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	base := cl.logger
	if base == nil {
		base = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, logger: base.With(fields...)}
}

// Debug logs at debug level
func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enriched().Debug(msg, fields...)
}

// Info logs at info level
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enriched().Info(msg, fields...)
}

// Warn logs at warn level
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enriched().Warn(msg, fields...)
}

// Error logs at error level
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enriched().Error(msg, fields...)
}

// Zap returns the enriched *zap.Logger
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enriched()
}
