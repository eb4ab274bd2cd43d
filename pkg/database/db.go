package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported driver names, as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DSN            string
	MaxConns       int
	Timeout        time.Duration
	TimeZone       string
	ClientEncoding string
}

// resolveDriver maps a DATABASE_URL onto a driver name and the source string
// that driver expects. Postgres URLs are passed through untouched; sqlite URLs
// have their scheme stripped ("sqlite://app.db", "sqlite::memory:").
func resolveDriver(dsn string) (string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite:"), nil
	}
	scheme, _, _ := strings.Cut(dsn, ":")
	return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
}

// Connect opens the database named by cfg.DSN and verifies connectivity with a ping.
func Connect(cfg Config) (*sqlx.DB, error) {
	driver, source, err := resolveDriver(cfg.DSN)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer and ":memory:" is per connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		maxConns := cfg.MaxConns
		if maxConns <= 0 {
			maxConns = 5
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	// Apply session-level settings if provided
	if driver == DriverPostgres && (cfg.TimeZone != "" || cfg.ClientEncoding != "") {
		if cfg.TimeZone != "" {
			if _, err := db.ExecContext(ctx, "SET TIME ZONE "+quoteLiteral(cfg.TimeZone)); err != nil {
				db.Close()
				return nil, fmt.Errorf("set time zone: %w", err)
			}
		}
		if cfg.ClientEncoding != "" {
			if _, err := db.ExecContext(ctx, "SET client_encoding = "+quoteLiteral(cfg.ClientEncoding)); err != nil {
				db.Close()
				return nil, fmt.Errorf("set client_encoding: %w", err)
			}
		}
	}
	return sqlx.NewDb(db, driver), nil
}

// TimestampType returns the column type used for timestamps on the given driver.
func TimestampType(driver string) string {
	if driver == DriverPostgres {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

// IsUniqueViolation reports whether err was raised by a unique index or
// primary key constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// quoteLiteral escapes single quotes and wraps the value in single quotes
// so it can be used safely in SET ... statements which don't accept
// parameter placeholders for the right-hand side.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
