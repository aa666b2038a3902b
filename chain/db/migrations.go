package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/schema/*.sql
var schemaFS embed.FS

//go:embed migrations/tier1/*.sql
var tier1FS embed.FS

//go:embed migrations/tier2/*.sql
var tier2FS embed.FS

// runGroup applies every up migration in one of the three embedded groups
// against pool, the way golang-migrate's iofs source driver is meant to be used
// over a compiled-in filesystem rather than a path on disk. Each group records
// its version in its own table: the three groups are applied independently and
// at different times, so they cannot share golang-migrate's default
// schema_migrations row.
func runGroup(pool *pgxpool.Pool, fsys embed.FS, dir, versionTable string) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("db: open migration source %s: %w", dir, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{MigrationsTable: versionTable})
	if err != nil {
		return fmt.Errorf("db: open migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx/v5", driver)
	if err != nil {
		return fmt.Errorf("db: build migrator for %s: %w", dir, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: apply migrations %s: %w", dir, err)
	}
	return nil
}
