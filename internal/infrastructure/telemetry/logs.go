package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider wraps the SDK logger provider that receives bridged zap records
type LoggerProvider struct {
	provider    *sdklog.LoggerProvider
	serviceName string
	logger      *zap.Logger
}

// NewLoggerProvider creates the OTLP/gRPC exporting logger provider and installs it globally.
// Logs are exported only when both telemetry and logs are enabled.
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{serviceName: cfg.ServiceName, logger: logger}
	if !cfg.Enabled || !cfg.LogsEnabled {
		logger.Info("OTEL logs disabled, logging to the configured output only")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OpenTelemetry LoggerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return lp, nil
}

// IsEnabled reports whether records are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.provider != nil
}

// Bridge returns a logger writing to base and, when enabled, to the collector.
// Records below minLevel are not exported.
func (lp *LoggerProvider) Bridge(base *zap.Logger, minLevel zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	otelCore := &levelFilterCore{
		Core:     otelzap.NewCore(lp.serviceName, otelzap.WithLoggerProvider(lp.provider)),
		minLevel: minLevel,
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelCore)
	}))
}

// Shutdown flushes pending records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	if err := lp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// levelFilterCore drops entries below minLevel; otelzap cores accept every level
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
