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

// Migrator wraps golang-migrate with an existing *sql.DB connection.
// All methods treat migrate.ErrNoChange as success.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator reading SQL files from migrationsPath and
// applying them over the given postgres connection.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	mg.logger.Info("Applying pending migrations")

	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := mg.m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	mg.logger.Info("Migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	mg.logger.Info("Rolling back all migrations")

	err := mg.m.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}

	mg.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations forward, or rolls back -n when negative.
func (mg *Migrator) Steps(n int) error {
	mg.logger.Info("Stepping migrations", zap.Int("steps", n))

	err := mg.m.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate steps: %w", err)
	}

	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	mg.logger.Info("Migration steps applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version reports the current schema version. A database with no
// applied migrations reports version 0 and no error.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL.
// Only for recovering from a dirty state.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles held by the migrator.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
