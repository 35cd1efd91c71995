// Package migrations applies schema migrations for a sqlstore connection
// ahead of a job run, using golang-migrate with an embedded filesystem
// source.
package migrations

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// Up applies every pending migration found under path in migrationFS against
// sqlDB, using the migrate driver for dbType ("sqlite", "mysql", or
// "postgres"). A no-change result is not an error.
func Up(sqlDB *sql.DB, dbType, migrationsTable string, migrationFS fs.FS, path string) error {
	sourceDriver, err := iofs.New(migrationFS, path)
	if err != nil {
		return fmt.Errorf("migrations: failed to create source driver for %q: %w", path, err)
	}

	dbDriver, err := driverFor(dbType, sqlDB, migrationsTable)
	if err != nil {
		return fmt.Errorf("migrations: failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dbType, dbDriver)
	if err != nil {
		return fmt.Errorf("migrations: failed to create migrate instance: %w", err)
	}
	defer m.Close()

	logger.Infof("migrations: applying pending migrations for %s (table %s)", dbType, migrationsTable)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrations: up failed for %s: %w", dbType, err)
	}

	logger.Infof("migrations: up completed for %s", dbType)
	return nil
}

func driverFor(dbType string, sqlDB *sql.DB, migrationsTable string) (database.Driver, error) {
	switch dbType {
	case "postgres":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: migrationsTable})
	case "sqlite":
		return sqlite.WithInstance(sqlDB, &sqlite.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", dbType)
	}
}
