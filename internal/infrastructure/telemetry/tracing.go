package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for stock operation spans
const TracerName = "warehouse-stock"

// Span attribute keys
const (
	SpanAttrTenantID    = "tenant_id"
	SpanAttrLineID      = "movement_line_id"
	SpanAttrMoveID      = "move_id"
	SpanAttrGoodID      = "good_id"
	SpanAttrWarehouseID = "warehouse_id"
	SpanAttrDirection   = "direction"
	SpanAttrQuantity    = "quantity"
	SpanAttrMatches     = "matches"
	SpanAttrOrdering    = "ordering"
)

// StartServiceSpan starts an internal span named {service}.{method}.
// keyValues are alternating attribute keys and values.
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(toAttributes(keyValues)...),
	)
}

// SetAttributes adds alternating key/value attributes to span
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttributes(keyValues)...)
}

// RecordError records err on span and marks the span failed
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toAttributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
