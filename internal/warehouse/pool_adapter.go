package warehouse

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// PoolAdapter adapts *pgxpool.Pool to fxload.DBConnection so that pgx
// types stay inside this package.
type PoolAdapter struct {
	pool    *pgxpool.Pool
	onClose func()
}

// NewPoolAdapter wraps pool. onClose, if not nil, runs after the pool is closed.
func NewPoolAdapter(pool *pgxpool.Pool, onClose func()) *PoolAdapter {
	return &PoolAdapter{pool: pool, onClose: onClose}
}

func (p *PoolAdapter) Begin(ctx context.Context) (fxload.DBTx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

func (p *PoolAdapter) Close() {
	p.pool.Close()
	if p.onClose != nil {
		p.onClose()
		p.onClose = nil
	}
}

type txAdapter struct {
	tx pgx.Tx
}

func (t *txAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t *txAdapter) QueryRow(ctx context.Context, sql string, args ...any) fxload.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func (t *txAdapter) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is a no-op once the transaction has been committed.
func (t *txAdapter) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

var (
	_ fxload.DBConnection = (*PoolAdapter)(nil)
	_ fxload.DBTx         = (*txAdapter)(nil)
)
