// Package migration manages the postgres schema with golang-migrate and
// scaffolds new migration file pairs for the migrate CLI.
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

// Migrator applies the SQL migrations in a directory against one database.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New wraps an open database connection in a Migrator reading
// migrations from dir.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("read migrations from %s: %w", dir, err)
	}

	return &Migrator{m: m, log: log.Named("migration")}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	mg.log.Info("applying pending migrations")

	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	return mg.report("migrations applied")
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	mg.log.Info("rolling back all migrations")

	if err := mg.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", err)
	}

	mg.log.Info("schema rolled back to empty")
	return nil
}

// Steps applies n migrations, rolling back when n is negative.
func (mg *Migrator) Steps(n int) error {
	mg.log.Info("stepping schema", zap.Int("steps", n))

	if err := mg.m.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("step %d migrations: %w", n, err)
	}
	return mg.report("schema stepped")
}

// To migrates up or down until the schema is at the given version.
func (mg *Migrator) To(version uint) error {
	mg.log.Info("migrating to version", zap.Uint("target", version))

	if err := mg.m.Migrate(version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("schema already at target version")
			return nil
		}
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	return mg.report("schema migrated")
}

// Version reports the current schema version and whether a failed
// migration left it dirty. A fresh database reports version zero.
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

// Force overwrites the recorded schema version without running any SQL.
// Only for repairing a dirty state after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing schema version", zap.Int("version", version))

	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database, data included.
func (mg *Migrator) Drop() error {
	mg.log.Warn("dropping all database objects")

	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (mg *Migrator) report(msg string) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
