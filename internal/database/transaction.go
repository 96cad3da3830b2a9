package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var (
	// ErrTransaction wraps failures to begin or commit a unit of work.
	ErrTransaction = errors.New("transaction failed")
	// ErrSessionClosed is returned when a Session is used after its scope ended.
	ErrSessionClosed = errors.New("session used outside its transaction scope")
	// ErrNestedTransaction is returned when Transaction is called from inside another scope.
	ErrNestedTransaction = errors.New("nested transactions are not supported")
)

type sessionKey struct{}

// commitTx ends a successful scope. Tests replace it to simulate a failing COMMIT.
var commitTx = (*sql.Tx).Commit

// Session is one unit of work: a pooled connection bound to a transaction.
// It is valid only inside the Transaction callback that received it and must
// not be shared between goroutines.
type Session struct {
	tx      *sql.Tx
	dialect Dialect
	closed  atomic.Bool
}

// Dialect reports the SQL engine the session talks to.
func (s *Session) Dialect() Dialect {
	return s.dialect
}

func (s *Session) check() error {
	if s == nil || s.closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

// txGuard owns the end of a transaction. release runs at most once no matter
// how the scope is left.
type txGuard struct {
	tx      *sql.Tx
	session *Session
	once    sync.Once
}

func (g *txGuard) commit() error {
	err := ErrSessionClosed
	g.once.Do(func() {
		g.session.closed.Store(true)

		if err = commitTx(g.tx); err != nil {
			g.rollback(err)
		}
	})
	return err
}

func (g *txGuard) abort(cause error) {
	g.once.Do(func() {
		g.session.closed.Store(true)
		g.rollback(cause)
	})
}

func (g *txGuard) rollback(cause error) {
	if err := g.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Error().Err(err).AnErr("cause", cause).Msg("Failed to rollback transaction")
	}
}

// Transaction runs fn inside a single unit of work. The transaction commits
// when fn returns nil and rolls back when fn returns an error or panics; the
// connection goes back to the pool exactly once in every case. A failed
// commit is rolled back and reported wrapped in ErrTransaction.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	return db.run(ctx, nil, fn)
}

// ReadTransaction is Transaction for scopes that only read. On SQLite it
// begins a deferred transaction, so readers never wait on the write lock
// that Transaction takes at BEGIN. fn must not write.
func (db *DB) ReadTransaction(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	return db.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (db *DB) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, s *Session) error) error {
	if _, nested := ctx.Value(sessionKey{}).(*Session); nested {
		return ErrNestedTransaction
	}

	tx, err := db.conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	session := &Session{tx: tx, dialect: db.dialect}
	guard := &txGuard{tx: tx, session: session}
	// reached with the guard still open only when fn panics
	defer guard.abort(nil)

	if err := fn(context.WithValue(ctx, sessionKey{}, session), session); err != nil {
		guard.abort(err)
		return err
	}

	if err := guard.commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}
	return nil
}
