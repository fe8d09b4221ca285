package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/erp/warehouse/internal/infrastructure/config"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/infrastructure/migration"
	"github.com/erp/warehouse/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		configPath     string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: the migrations embedded in the binary)")
	flag.StringVar(&configPath, "config", "", "Config file (default: ./config.toml or /etc/warehouse/config.toml)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("migration name required: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return
	case "list":
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("migrations target postgres; sqlite schemas are created by the server at startup",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer func() { _ = m.Close() }()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		err = withIntArg(args, func(n int) error { return m.Steps(n) })
	case "force":
		err = withIntArg(args, m.Force)
	case "version":
		var status migration.Status
		status, err = m.Status()
		if err == nil {
			log.Info("schema version",
				zap.Uint("version", status.Version),
				zap.Bool("dirty", status.Dirty),
				zap.Bool("applied", status.Applied),
			)
		}
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func withIntArg(args []string, fn func(int) error) error {
	if len(args) < 2 {
		return fmt.Errorf("%s requires a number", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	return fn(n)
}

func printUsage() {
	fmt.Println(`Warehouse stock schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  version               Show the current schema version
  force <version>       Mark a version as applied after repairing a dirty state
  create <name> [desc]  Create the next migration file pair
  list                  List migrations in the migrations directory

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -config string        Config file
  -log-level string     Log level (default: info)

Database settings come from config.toml and WMS_DATABASE_* environment variables.`)
}
