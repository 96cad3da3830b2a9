package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DB owns the process-wide connection pool. It is created once at startup
// with Open and released with Close; callers receive it as an explicit
// dependency. It intentionally exposes only the database package API (no raw *sql.DB).
type DB struct {
	conn     *sql.DB
	dialect  Dialect
	location string
}

// Open parses a DATABASE_URL style connection string, opens the pool and
// verifies the connection.
func Open(ctx context.Context, url string) (*DB, error) {
	target, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(target.Dialect.driverName(), target.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	switch target.Dialect {
	case Postgres:
		conn.SetMaxOpenConns(20)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	default:
		if target.Memory {
			// every connection to :memory: is a separate database
			conn.SetMaxOpenConns(1)
		} else {
			// SQLite with WAL mode supports concurrent reads but serializes writes
			conn.SetMaxOpenConns(10)
			conn.SetMaxIdleConns(5)
		}
	}

	log.Debug().
		Str("dialect", string(target.Dialect)).
		Str("location", target.Location).
		Msg("Database connection established")

	return &DB{
		conn:     conn,
		dialect:  target.Dialect,
		location: target.Location,
	}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Dialect reports which SQL engine backs the pool.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Location returns the database file path, or the redacted server URL for
// PostgreSQL. It is safe to log.
func (db *DB) Location() string {
	return db.location
}

// Ping checks that a connection can still be acquired.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
