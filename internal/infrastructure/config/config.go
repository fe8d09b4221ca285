package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Matching    MatchingConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
	Profiling   ProfilingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// DefaultTenantID is used for requests that carry no X-Tenant-ID header
	DefaultTenantID string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	SQLitePath      string // file path or ":memory:" when Driver is sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	LogLevel        string
	SlowQueryThresh time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	TrustedProxies  []string
}

// MatchingConfig holds stock matching settings
type MatchingConfig struct {
	OrderingStrategy string // name of a registered ordering strategy (fifo, fefo)
	CostPrecision    int32  // decimal places kept on allocated unit costs
}

// IdempotencyConfig holds settings for the Idempotency-Key guard on confirm/revert
type IdempotencyConfig struct {
	Enabled bool
	Backend string // memory or redis
	TTL     time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	// DBTracing adds a span per SQL statement; DBTraceFullSQL keeps bound values in them
	DBTracing      bool
	DBTraceFullSQL bool
}

// ProfilingConfig holds Pyroscope continuous profiling settings.
// CPU and heap profiles are always collected when enabled.
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	Goroutines        bool
	Mutex             bool
	Block             bool
	// SpanProfiles labels samples with span ids; requires telemetry.enabled
	SpanProfiles bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WMS_ prefix (e.g., WMS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/warehouse")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return build(v)
}

// LoadFile loads configuration from an explicit file, still honouring env overrides
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("WMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:            v.GetString("app.name"),
			Env:             v.GetString("app.env"),
			Port:            v.GetString("app.port"),
			DefaultTenantID: v.GetString("app.default_tenant_id"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			LogLevel:        v.GetString("database.log_level"),
			SlowQueryThresh: v.GetDuration("database.slow_query_threshold"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
		},
		Matching: MatchingConfig{
			OrderingStrategy: v.GetString("matching.ordering_strategy"),
			CostPrecision:    v.GetInt32("matching.cost_precision"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			Backend: v.GetString("idempotency.backend"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTracing:         v.GetBool("telemetry.db_tracing"),
			DBTraceFullSQL:    v.GetBool("telemetry.db_trace_full_sql"),
		},
		Profiling: ProfilingConfig{
			Enabled:           v.GetBool("profiling.enabled"),
			ServerAddress:     v.GetString("profiling.server_address"),
			ApplicationName:   v.GetString("profiling.application_name"),
			BasicAuthUser:     v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiling.basic_auth_password"),
			Goroutines:        v.GetBool("profiling.goroutines"),
			Mutex:             v.GetBool("profiling.mutex"),
			Block:             v.GetBool("profiling.block"),
			SpanProfiles:      v.GetBool("profiling.span_profiles"),
		},
	}
	if !v.IsSet("matching.cost_precision") {
		cfg.Matching.CostPrecision = -1
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "warehouse"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.DefaultTenantID == "" {
		cfg.App.DefaultTenantID = "00000000-0000-0000-0000-000000000001"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "warehouse.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "warehouse"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowQueryThresh == 0 {
		cfg.Database.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Matching.OrderingStrategy == "" {
		cfg.Matching.OrderingStrategy = "fifo"
	}
	if cfg.Matching.CostPrecision < 0 {
		cfg.Matching.CostPrecision = 4
	}
	if cfg.Idempotency.Backend == "" {
		cfg.Idempotency.Backend = "memory"
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.Telemetry.ServiceName
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Matching.OrderingStrategy {
	case "fifo", "fefo":
	default:
		return fmt.Errorf("matching.ordering_strategy must be 'fifo' or 'fefo', got %q", c.Matching.OrderingStrategy)
	}
	// stored quantities and costs carry 4 decimal places
	if c.Matching.CostPrecision > 4 {
		return fmt.Errorf("matching.cost_precision must be between 0 and 4, got %d", c.Matching.CostPrecision)
	}

	switch c.Idempotency.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("idempotency.backend must be 'memory' or 'redis', got %q", c.Idempotency.Backend)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Driver != DriverPostgres {
			return fmt.Errorf("database.driver must be postgres in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction returns true when running with app.env = production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
