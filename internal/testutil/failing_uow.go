package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/planboard/internal/db"
)

// FailingUoW wraps a real UnitOfWork and makes the Nth ExecContext call
// return Err. Calls are counted from 1 across every transaction the UoW
// runs, retries included, so a busy error injected once is retried and
// then succeeds.
type FailingUoW struct {
	Inner  db.UnitOfWork
	FailOn int32
	Err    error

	execs atomic.Int32
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, uow: u})
	})
}

// Execs is the number of ExecContext calls seen so far.
func (u *FailingUoW) Execs() int {
	return int(u.execs.Load())
}

type failingExec struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.execs.Add(1) == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
