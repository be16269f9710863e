package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Driver  string
	DSN     string
	Dialect Dialect
}

// ParseURL accepts postgres:// and postgresql:// URLs as well as the
// sqlite:///path form used by SQLAlchemy.
func ParseURL(url string) (Target, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Target{Driver: "pgx", DSN: url, Dialect: DialectPostgres}, nil
	case strings.HasPrefix(url, "sqlite:///"):
		return sqliteTarget(strings.TrimPrefix(url, "sqlite:///")), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqliteTarget(strings.TrimPrefix(url, "sqlite://")), nil
	case strings.HasPrefix(url, "file:"):
		return sqliteTarget(url), nil
	}
	return Target{}, fmt.Errorf("unsupported DATABASE_URL %q", url)
}

func sqliteTarget(path string) Target {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return Target{
		Driver:  "sqlite3",
		DSN:     path + sep + "_foreign_keys=on&_busy_timeout=5000",
		Dialect: DialectSQLite,
	}
}

// Connect opens and pings the database named by url.
func Connect(ctx context.Context, url string) (*sql.DB, Dialect, error) {
	target, err := ParseURL(url)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("error opening database: %w", err)
	}

	if target.Dialect == DialectSQLite {
		// SQLite serialises writers; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("error connecting to database: %w", err)
	}
	return db, target.Dialect, nil
}

// Migrate applies the embedded migrations for dialect, reporting progress to log.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, log logrus.FieldLogger) error {
	gooseDialect := "pgx"
	if dialect == DialectSQLite {
		gooseDialect = "sqlite3"
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(log)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations/"+string(dialect)); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
