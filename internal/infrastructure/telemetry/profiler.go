package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// defaultProfileRate applies to mutex and block profiling when they are enabled
const defaultProfileRate = 5

// Profiler wraps the Pyroscope continuous profiler
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	mu       sync.Mutex
	stopped  bool
}

// NewProfiler starts pushing profiles to Pyroscope. A disabled configuration
// returns a profiler whose Stop does nothing.
func NewProfiler(cfg config.ProfilingConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	types := profileTypes(cfg)
	if cfg.Mutex {
		runtime.SetMutexProfileFraction(defaultProfileRate)
	}
	if cfg.Block {
		runtime.SetBlockProfileRate(defaultProfileRate)
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:              tags,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Int("profile_types", len(types)),
	)
	return p, nil
}

// profileTypes always samples CPU and heap; mutex and block profiles are opt-in
func profileTypes(cfg config.ProfilingConfig) []pyroscope.ProfileType {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
	}
	if cfg.Goroutines {
		types = append(types, pyroscope.ProfileGoroutines)
	}
	if cfg.Mutex {
		types = append(types, pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration)
	}
	if cfg.Block {
		types = append(types, pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration)
	}
	return types
}

// IsEnabled reports whether profiles are being pushed
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes pending profiles. It is safe to call more than once.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true
	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Pyroscope profiler stopped")
	return nil
}

type pyroscopeLogger struct {
	*zap.SugaredLogger
}

var _ pyroscope.Logger = pyroscopeLogger{}

// Profiling label keys. Values must stay low cardinality.
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTenantID = "tenant_id"
)

// WithProfilingLabels runs fn with labels attached to the goroutine's profiling
// samples. Empty keys and values are skipped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		if k == "" || v == "" {
			continue
		}
		pairs = append(pairs, k, v)
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
