package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "fred/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// Runner opens transactions on behalf of callers that own the boundary
// (the composition root, HTTP middleware).
type Runner struct {
	db      *sql.DB
	timeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout bounds each transaction that has no deadline of its own.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRunner constructs a Runner over db.
func NewRunner(db *sql.DB, opts ...RunnerOption) *Runner {
	r := &Runner{db: db, timeout: defaultTxTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTx runs fn inside a read-write transaction.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, nil, fn)
}

// RunReadOnly runs fn inside a read-only repeatable-read transaction, so every
// query fn issues observes the same snapshot.
func (r *Runner) RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (r *Runner) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, nested := From(ctx); nested {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit transaction")
	}
	return nil
}
