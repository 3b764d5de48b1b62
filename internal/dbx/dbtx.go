// Package dbx holds the small database plumbing shared by all repositories:
// a DBTX interface satisfied by both *sql.DB and *sql.Tx, and WithTx, which
// scopes a function to a transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories need. Passing a *sql.Tx
// runs a repository inside an enclosing transaction; passing a *sql.DB runs it
// in auto-commit mode.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFn is the body of a scoped transaction.
type TxFn func(ctx context.Context, tx DBTX) error

// WithTx begins a transaction, runs fn against it and commits when fn returns
// nil. Any error or panic rolls the transaction back; panics are rethrown.
// No call site has to remember the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
