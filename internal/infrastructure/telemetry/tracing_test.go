package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := installRecorder(t)
	lineID := uuid.New()

	_, span := StartServiceSpan(context.Background(), "movement", "confirm",
		SpanAttrLineID, lineID,
		SpanAttrMatches, 3,
		"dangling",
	)
	RecordError(span, errors.New("insufficient stock"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "movement.confirm", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(SpanAttrLineID, lineID.String()))
	assert.Contains(t, ended[0].Attributes(), attribute.Int(SpanAttrMatches, 3))
	assert.Len(t, ended[0].Attributes(), 2)
}

func TestRecordError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"))
		SetAttributes(nil, "a", 1)
	})
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{Enabled: false, ServiceName: "warehouse"}

	tp, err := NewTracerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), samplerFor(0.25).Description())
}
