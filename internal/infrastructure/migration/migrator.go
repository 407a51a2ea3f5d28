// Package migration wraps golang-migrate for schema management: applying
// and rolling back versioned SQL migrations, plus scaffolding new
// migration file pairs.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL migrations against Postgres
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New builds a Migrator over an open database handle, sourcing migration
// files from dir.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	mg.log.Info("Applying pending migrations")
	return mg.run(mg.m.Up(), "apply migrations")
}

// Down rolls back every applied migration
func (mg *Migrator) Down() error {
	return mg.run(mg.m.Down(), "roll back migrations")
}

// Steps applies n migrations; a negative n rolls back
func (mg *Migrator) Steps(n int) error {
	mg.log.Info("Applying migration steps", zap.Int("steps", n))
	return mg.run(mg.m.Steps(n), "apply migration steps")
}

// GoTo migrates up or down until the schema sits at version
func (mg *Migrator) GoTo(version uint) error {
	mg.log.Info("Migrating to version", zap.Uint("target", version))
	return mg.run(mg.m.Migrate(version), "migrate to version")
}

// run normalizes the ErrNoChange outcome and logs where the schema ended up
func (mg *Migrator) run(err error, action string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if version, dirty, verr := mg.Version(); verr == nil {
		mg.log.Info("Migration finished",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	}
	return nil
}

// Version reports the current schema version. A database with no applied
// migrations reports version zero.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded schema version without running any
// migration. Only for repairing a dirty state.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the connected database
func (mg *Migrator) Drop() error {
	mg.log.Warn("Dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	return errors.Join(sourceErr, dbErr)
}
