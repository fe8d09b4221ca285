// Package migration applies the PostgreSQL schema of the stock tables with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against one database
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Status describes the schema version of the database
type Status struct {
	Version uint
	Dirty   bool
	// Applied is false when no migration has ever run
	Applied bool
}

// NewFromFS creates a Migrator reading migrations from fsys, usually the embedded
// migrations.FS
func NewFromFS(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return newWithSource(db, "iofs", src, logger)
}

// New creates a Migrator reading migrations from a directory
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

func newWithSource(db *sql.DB, sourceName string, src source.Driver, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance(sourceName, src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logVersion("schema migrated up")
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logger.Info("schema rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no migrations to apply", zap.Int("steps", n))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return m.logVersion("migration steps applied")
}

// Status returns the current schema version
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Force records version as applied without running it. It is the way out of a dirty
// state after a failed migration was repaired by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logVersion(msg string) error {
	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", status.Version), zap.Bool("dirty", status.Dirty))
	return nil
}
