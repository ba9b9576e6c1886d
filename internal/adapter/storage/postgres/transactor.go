package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// defaultLockTimeout bounds how long a ledger transaction waits on a row or
// per-wallet advisory lock before failing.
const defaultLockTimeout = 5 * time.Second

// Transactor implements ports.DBTransactor over a Pool.
type Transactor struct {
	pool        Pool
	lockTimeout time.Duration
}

// NewTransactor creates a Transactor whose transactions use the default
// lock timeout.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool, lockTimeout: defaultLockTimeout}
}

// Begin starts a ledger transaction with a local lock_timeout.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	if t.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("setting lock timeout: %w", err)
		}
	}
	return tx, nil
}
