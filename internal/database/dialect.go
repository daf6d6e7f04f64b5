package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Dialect hides the differences between the supported SQL engines.
type Dialect interface {
	// Name returns the dialect name, also used as the migrations subdirectory
	Name() string
	// DriverName returns the driver name for sql.Open
	DriverName() string
	// DSN normalizes the configured store URL into a driver DSN
	DSN(url string) (string, error)
	// RewriteQuery converts ? placeholders if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string
	// QuoteIdent quotes a reserved column name such as "order"
	QuoteIdent(name string) string
	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool
	// ConfigureConnection applies engine-specific connection settings
	ConfigureConnection(db *sql.DB) error
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return PostgresDialect{}, nil
	case "mysql":
		return MySQLDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", name)
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// Placeholders inside single-quoted literals are left alone.
func rewritePlaceholdersToNumbered(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	counter := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			sb.WriteByte(c)
		case c == '?' && !inLiteral:
			counter++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(counter))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// PostgresDialect implements Dialect for PostgreSQL through pgx
type PostgresDialect struct{}

func (PostgresDialect) Name() string       { return "postgres" }
func (PostgresDialect) DriverName() string { return "pgx" }

func (PostgresDialect) DSN(url string) (string, error) { return url, nil }

func (PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (PostgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }

// SupportsLastInsertId is false: inserts need a RETURNING clause
func (PostgresDialect) SupportsLastInsertId() bool { return false }

func (PostgresDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

func (MySQLDialect) Name() string       { return "mysql" }
func (MySQLDialect) DriverName() string { return "mysql" }

// DSN forces parseTime and multiStatements, the latter needed by migrations.
func (MySQLDialect) DSN(url string) (string, error) {
	cfg, err := mysql.ParseDSN(url)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

func (MySQLDialect) RewriteQuery(query string) string { return query }

func (MySQLDialect) QuoteIdent(name string) string { return "`" + name + "`" }

func (MySQLDialect) SupportsLastInsertId() bool { return true }

func (MySQLDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string       { return "sqlite3" }
func (SQLiteDialect) DriverName() string { return "sqlite3" }

// DSN turns on foreign keys for every connection the driver opens.
func (SQLiteDialect) DSN(url string) (string, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite3://"), "sqlite://")
	if dsn == "" {
		return "", fmt.Errorf("empty sqlite DSN")
	}
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn, nil
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on", nil
}

func (SQLiteDialect) RewriteQuery(query string) string { return query }

func (SQLiteDialect) QuoteIdent(name string) string { return `"` + name + `"` }

func (SQLiteDialect) SupportsLastInsertId() bool { return true }

// ConfigureConnection pins a single connection so in-memory databases are
// shared.
func (SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	return nil
}
