package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/facilityos/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	dir = resolveDir(dir)
	log.Info("Migration CLI started",
		zap.String("command", args[0]),
		zap.String("migrations_path", dir),
	)

	if err := run(args, dir, log); err != nil {
		log.Fatal("Command failed", zap.Error(err))
	}
}

// resolveDir locates the migrations directory: the flag value, the working
// directory, then relative to the binary.
func resolveDir(dir string) string {
	if dir == "" {
		dir = defaultMigrationsDir
		if _, err := os.Stat(dir); err != nil {
			if execPath, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsDir)
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func run(args []string, dir string, log *zap.Logger) error {
	command := args[0]

	// scaffold and list need no database connection
	switch command {
	case "create":
		return runCreate(args[1:], dir, log)
	case "list":
		return runList(dir, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args[1:], "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args[1:], "target version")
		if err != nil || n < 0 {
			return fmt.Errorf("goto needs a non-negative version")
		}
		return m.GoTo(uint(n))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return nil
	case "force":
		n, err := intArg(args[1:], "version")
		if err != nil {
			return err
		}
		log.Warn("Forcing schema version - use with caution")
		return m.Force(n)
	case "drop":
		if !hasConfirmFlag(args[1:]) {
			return fmt.Errorf("drop cancelled: rerun as 'migrate drop -confirm'")
		}
		return m.Drop()
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runCreate(args []string, dir string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("migration name required: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	pair, err := migration.Scaffold(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", pair.Version),
		zap.String("up_file", pair.UpPath),
		zap.String("down_file", pair.DownPath),
	)
	return nil
}

func runList(dir string, log *zap.Logger) error {
	names, err := migration.List(dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		log.Info("No migrations found")
		return nil
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func hasConfirmFlag(args []string) bool {
	for _, a := range args {
		if a == "-confirm" || a == "--confirm" {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println(`FacilityOS Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show current schema version
  force <version>       Overwrite recorded version (repairs dirty state)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Scaffold a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  FOS_DATABASE_HOST, FOS_DATABASE_PORT, FOS_DATABASE_USER,
  FOS_DATABASE_PASSWORD, FOS_DATABASE_DBNAME, FOS_DATABASE_SSLMODE`)
}
