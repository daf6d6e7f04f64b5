package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsTable keeps this schema's history apart from other tools sharing the database
const migrationsTable = "course_schema_migrations"

// RunMigrations applies the embedded migrations for the connection's dialect.
func RunMigrations(db *DB) error {
	driver, err := migrationDriver(db)
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+db.Dialect.Name())
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Dialect.Name(), driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func migrationDriver(db *DB) (migratedb.Driver, error) {
	switch db.Dialect.(type) {
	case PostgresDialect:
		return pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{MigrationsTable: migrationsTable})
	case MySQLDialect:
		return mysql.WithInstance(db.DB, &mysql.Config{MigrationsTable: migrationsTable})
	case SQLiteDialect:
		return sqlite3.WithInstance(db.DB, &sqlite3.Config{MigrationsTable: migrationsTable})
	}
	return nil, fmt.Errorf("no migration driver for %s", db.Dialect.Name())
}
