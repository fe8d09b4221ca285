package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// defaultExportInterval applies when the configuration leaves the interval unset
const defaultExportInterval = 60 * time.Second

// MeterProvider wraps the SDK meter provider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates the OTLP/gRPC exporting meter provider and installs it globally.
// Metrics are exported only when both telemetry and metrics are enabled.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled || !cfg.MetricsEnabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled returns whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown flushes pending metrics and stops the exporter
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
