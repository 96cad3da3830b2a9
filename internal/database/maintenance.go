package database

import (
	"context"
	"fmt"
)

// Optimize refreshes planner statistics: PRAGMA optimize on SQLite, ANALYZE
// on PostgreSQL.
func (db *DB) Optimize(ctx context.Context) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	stmt := "PRAGMA optimize"
	if db.dialect == Postgres {
		stmt = "ANALYZE"
	}
	if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	return nil
}

// Vacuum rebuilds the database file to reclaim unused space. It cannot run
// inside a transaction, so it goes straight to the pool.
func (db *DB) Vacuum(ctx context.Context) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	if _, err := db.conn.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}
