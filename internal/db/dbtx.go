package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories query through: the shared *sql.DB for reads
// and polling, or the *sql.Tx of a UnitOfWork for document saves.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
