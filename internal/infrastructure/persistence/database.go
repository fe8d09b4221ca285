package persistence

import (
	"fmt"
	"time"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured database and routes GORM logging through zap
func NewDatabase(cfg *config.DatabaseConfig, zl *zap.Logger) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zl, logger.MapGormLogLevel(cfg.LogLevel), cfg.SlowQueryThresh),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver == config.DriverPostgres,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates or updates the stock schema from the GORM models.
// Postgres deployments use the SQL migrations instead; this serves sqlite and tests.
func (d *Database) AutoMigrate() error {
	return AutoMigrate(d.DB)
}

// AutoMigrate creates or updates the stock schema on db
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate stock schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}

// supportsRowLocks reports whether the dialect understands SELECT ... FOR UPDATE.
// sqlite serialises writers on its own.
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "postgres"
}
