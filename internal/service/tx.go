package service

import (
	"context"
	"database/sql"

	"github.com/taskwell/taskwell-api/internal/store"
)

// TxRunner executes a function within a database transaction. Services
// depend on this interface rather than on *sql.DB directly so tests can
// substitute an in-memory runner.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn store.TxFn) error
}

// DBTxRunner is the production TxRunner over a *sql.DB.
type DBTxRunner struct {
	DB *sql.DB
}

// RunInTransaction implements TxRunner using store.RunInTransaction.
func (r *DBTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, r.DB, fn)
}
