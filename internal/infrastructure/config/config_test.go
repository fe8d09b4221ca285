package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"WMS_APP_NAME",
	"WMS_APP_ENV",
	"WMS_APP_PORT",
	"WMS_DATABASE_DRIVER",
	"WMS_DATABASE_HOST",
	"WMS_DATABASE_PORT",
	"WMS_DATABASE_PASSWORD",
	"WMS_DATABASE_SSLMODE",
	"WMS_DATABASE_MAX_OPEN_CONNS",
	"WMS_DATABASE_MAX_IDLE_CONNS",
	"WMS_MATCHING_ORDERING_STRATEGY",
	"WMS_MATCHING_COST_PRECISION",
	"WMS_IDEMPOTENCY_BACKEND",
	"WMS_TELEMETRY_SAMPLING_RATIO",
}

// clearEnv blanks every variable the tests touch; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "warehouse", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "fifo", cfg.Matching.OrderingStrategy)
		assert.Equal(t, int32(4), cfg.Matching.CostPrecision)
		assert.Equal(t, "memory", cfg.Idempotency.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "warehouse", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads values from environment variables with WMS prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_APP_NAME", "wms-test")
		t.Setenv("WMS_DATABASE_DRIVER", "sqlite")
		t.Setenv("WMS_DATABASE_PORT", "5433")
		t.Setenv("WMS_MATCHING_ORDERING_STRATEGY", "fefo")
		t.Setenv("WMS_MATCHING_COST_PRECISION", "2")
		t.Setenv("WMS_IDEMPOTENCY_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wms-test", cfg.App.Name)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "fefo", cfg.Matching.OrderingStrategy)
		assert.Equal(t, int32(2), cfg.Matching.CostPrecision)
		assert.Equal(t, "redis", cfg.Idempotency.Backend)
	})

	t.Run("explicit zero cost precision is kept", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_MATCHING_COST_PRECISION", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, int32(0), cfg.Matching.CostPrecision)
	})

	t.Run("rejects cost precision beyond the stored scale", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_MATCHING_COST_PRECISION", "6")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matching.cost_precision")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown ordering strategy", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_MATCHING_ORDERING_STRATEGY", "random")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matching.ordering_strategy")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("production requires secured postgres", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_APP_ENV", "production")
		t.Setenv("WMS_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		t.Setenv("WMS_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("validates sampling ratio", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WMS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
name = "from-file"

[database]
driver = "sqlite"
sqlite_path = ":memory:"

[matching]
ordering_strategy = "fefo"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, "fefo", cfg.Matching.OrderingStrategy)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("WMS_MATCHING_ORDERING_STRATEGY", "fifo")
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fifo", cfg.Matching.OrderingStrategy)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss word", DBName: "wms", SSLMode: "require"}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://u:p%40ss%20word@db:5432/wms")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestLoadFile_Observability(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[telemetry]
enabled = true
logs_enabled = true
db_tracing = true

[profiling]
enabled = true
server_address = "http://pyroscope:4040"
mutex = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.LogsEnabled)
	assert.True(t, cfg.Telemetry.DBTracing)
	assert.False(t, cfg.Telemetry.DBTraceFullSQL)
	assert.True(t, cfg.Profiling.Enabled)
	assert.Equal(t, "http://pyroscope:4040", cfg.Profiling.ServerAddress)
	assert.Equal(t, "warehouse", cfg.Profiling.ApplicationName)
	assert.True(t, cfg.Profiling.Mutex)
	assert.False(t, cfg.Profiling.Block)
}
