package database

import (
	"context"
	"database/sql"
)

// row is satisfied by *sql.Row and by errRow.
type row interface {
	Scan(dest ...any) error
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (s *Session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.tx.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Session) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.tx.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Session) queryRow(ctx context.Context, query string, args ...any) row {
	if err := s.check(); err != nil {
		return errRow{err}
	}
	return s.tx.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}
