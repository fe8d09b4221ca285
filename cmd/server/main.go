package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appstock "github.com/erp/warehouse/internal/application/stock"
	"github.com/erp/warehouse/internal/domain/shared/strategy"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/cache"
	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/erp/warehouse/internal/infrastructure/event"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/infrastructure/persistence"
	strategyimpl "github.com/erp/warehouse/internal/infrastructure/strategy"
	"github.com/erp/warehouse/internal/infrastructure/telemetry"
	"github.com/erp/warehouse/internal/interfaces/http/handler"
	"github.com/erp/warehouse/internal/interfaces/http/middleware"
	"github.com/erp/warehouse/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting warehouse stock service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	// logger.New already rejected unknown levels
	logLevel, _ := logger.ParseLevel(cfg.Log.Level)
	log = loggerProvider.Bridge(log, logLevel)
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	matchingMetrics, err := telemetry.NewMatchingMetrics(meterProvider.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to create matching metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite {
		// postgres schemas are managed by cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		LogFullSQL:      cfg.Telemetry.DBTraceFullSQL && !cfg.IsProduction(),
		SlowQueryThresh: cfg.Database.SlowQueryThresh,
		DBSystem:        dbSystem,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Ordering policy
	registry, err := strategyimpl.NewRegistryWithDefaults()
	if err != nil {
		log.Fatal("Failed to register ordering strategies", zap.Error(err))
	}
	ordering, err := registry.GetOrderingStrategy(cfg.Matching.OrderingStrategy)
	if err != nil {
		log.Fatal("Unknown ordering strategy",
			zap.String("strategy", cfg.Matching.OrderingStrategy),
			zap.Strings("available", registry.ListOrderingStrategies()),
		)
	}
	allocator := stock.NewAllocator(
		stock.WithOrdering(ordering),
		stock.WithCostPrecision(cfg.Matching.CostPrecision),
	)
	log.Info("Matching configured",
		zap.String("ordering", ordering.Name()),
		zap.Bool("considers_expiry", ordering.ConsidersExpiry()),
		zap.String("default", registry.GetDefault(strategy.StrategyTypeOrdering)),
	)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := appstock.NewAuditEventHandler(log)
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	repos := persistence.NewRepositories(db.DB)
	movementService := appstock.NewMovementService(
		persistence.NewGormTransactionScope(db.DB),
		repos,
		allocator,
		appstock.WithEventPublisher(eventBus),
		appstock.WithMatchingMetrics(matchingMetrics),
	)
	catalogService := appstock.NewCatalogService(repos.Goods, repos.Warehouses)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenantID)
	if err != nil {
		log.Fatal("Invalid app.default_tenant_id", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid http.trusted_proxies", zap.Error(err))
	}
	engine.Use(
		middleware.Tracing(cfg.Telemetry.ServiceName),
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Tenant(defaultTenant),
		middleware.SpanAttributes(),
		middleware.Profiling("/health"),
	)

	var guard gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithMemoryFallback(!cfg.IsProduction()),
		).Create(ctx, cfg.Idempotency.Backend)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		guard = middleware.Idempotency(store, cfg.Idempotency.TTL)
	}

	router.RegisterStock(engine, router.NewRouter(engine), router.StockHandlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Movement: handler.NewMovementHandler(movementService),
		System:   handler.NewSystemHandler(db, cfg.App.Name, version, allocator.OrderingName()),
	}, guard)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
