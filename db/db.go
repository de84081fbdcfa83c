package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens a pool for driver ("postgres" or "sqlite") and pings it
// within timeout.
func Connect(driver, dsn string, timeout time.Duration) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	if driver == DriverSQLite {
		// One connection: an in-memory database lives and dies with its connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	statements := postgresSchema
	if driver == DriverSQLite {
		statements = sqliteSchema
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		source_url  TEXT,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS competitors (
		id              BIGSERIAL PRIMARY KEY,
		event_id        BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		name            TEXT NOT NULL,
		team            TEXT NOT NULL DEFAULT '',
		professor       TEXT NOT NULL DEFAULT '',
		age_division    TEXT NOT NULL,
		weight_division TEXT NOT NULL,
		belt            TEXT NOT NULL,
		gender          TEXT NOT NULL,
		CONSTRAINT competitors_event_id_position_key UNIQUE (event_id, position)
	)`,
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		source_url  TEXT,
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS competitors (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id        INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		name            TEXT NOT NULL,
		team            TEXT NOT NULL DEFAULT '',
		professor       TEXT NOT NULL DEFAULT '',
		age_division    TEXT NOT NULL,
		weight_division TEXT NOT NULL,
		belt            TEXT NOT NULL,
		gender          TEXT NOT NULL,
		UNIQUE (event_id, position)
	)`,
}
