package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB provides schedule persistence on top of a pgx connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies it with a ping
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// NewDB wraps an existing pool
func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// Close releases the connection pool
func (db *DB) Close() {
	db.pool.Close()
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			permissions TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role_id TEXT REFERENCES roles(id),
			exclude_from_hours BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS shift_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			start_time TEXT,
			end_time TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS validation_rules (
			id TEXT PRIMARY KEY,
			rule_type TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			priority INTEGER NOT NULL DEFAULT 0,
			config JSONB NOT NULL DEFAULT '{}',
			applies_to_roles TEXT[] NOT NULL DEFAULT '{}',
			applies_to_employees TEXT[] NOT NULL DEFAULT '{}',
			severity TEXT NOT NULL DEFAULT 'warning',
			message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS day_off_requests (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_entries (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			day INTEGER NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			shift_id TEXT NOT NULL REFERENCES shift_types(id),
			UNIQUE (employee_id, day, month, year)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
