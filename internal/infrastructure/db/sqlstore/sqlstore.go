// Package sqlstore is the relational credential and ride store. It speaks
// MySQL, the schema the admin panel was first deployed on, and SQLite for
// local development and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/samber/oops"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Driver string

const (
	DriverMySQL  Driver = "mysql"
	DriverSQLite Driver = "sqlite"
)

const defaultTimeout = 10 * time.Second

// Open connects to dsn with driver and verifies the connection.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverMySQL:
		return openMySQL(ctx, dsn)
	case DriverSQLite:
		return openSQLite(ctx, dsn)
	default:
		return nil, oops.Code("CONFIG_INVALID").With("driver", driver).Errorf("unsupported sql driver %q", driver)
	}
}

func openMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "parse mysql dsn").Wrap(err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open(string(DriverMySQL), cfg.FormatDSN())
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", DriverMySQL).Wrap(err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, ping(ctx, db, DriverMySQL)
}

func openSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(DriverSQLite), dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", DriverSQLite).Wrap(err)
	}
	// One writer at a time; a single connection also keeps :memory: databases
	// from splitting across the pool.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, oops.Code("DB_CONNECT_FAILED").With("pragma", p).Wrap(err)
		}
	}
	return db, ping(ctx, db, DriverSQLite)
}

func ping(ctx context.Context, db *sql.DB, driver Driver) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return oops.Code("DB_CONNECT_FAILED").With("driver", driver).With("operation", "ping").Wrap(err)
	}
	return nil
}

// isUniqueViolation reports duplicate-key errors from either driver.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
