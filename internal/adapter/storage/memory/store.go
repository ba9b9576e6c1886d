// Package memory is an in-process LedgerStore for local runs and tests.
// It honours the same conditional-write contracts as the Postgres adapter.
package memory

import (
	"context"
	"errors"
	"sync"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store holds every ledger table. A transaction owns the store lock from
// Begin until Commit or Rollback, so transactions are serializable.
type Store struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*domain.Purchase
	tokens    map[domain.TokenSymbol]*domain.TokenConfig
	links     map[uuid.UUID]*domain.ReferralLink
	attempts  map[string]*domain.SettlementAttempt
	audit     []domain.AuditLog
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		purchases: make(map[uuid.UUID]*domain.Purchase),
		tokens:    make(map[domain.TokenSymbol]*domain.TokenConfig),
		links:     make(map[uuid.UUID]*domain.ReferralLink),
		attempts:  make(map[string]*domain.SettlementAttempt),
	}
}

// Begin starts a transaction. It implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{store: s}, nil
}

// do runs fn under the store lock. With a Tx from this store the lock is
// already held and fn's undo steps join the transaction journal.
func (s *Store) do(tx pgx.Tx, fn func(undo func(func())) error) error {
	if tx == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(func(func()) {})
	}

	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return errors.New("memory: foreign transaction")
	}
	if t.done {
		return pgx.ErrTxClosed
	}
	return fn(func(step func()) { t.undo = append(t.undo, step) })
}

// Tx is a Store transaction. Only Commit and Rollback are meaningful; the
// SQL methods exist to satisfy pgx.Tx and fail if called.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

var errNoSQL = errors.New("memory: SQL is not supported")

// Commit keeps the transaction's writes and releases the store.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback reverts the transaction's writes in reverse order and releases the store.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

func (t *Tx) Begin(_ context.Context) (pgx.Tx, error) { return nil, errNoSQL }
func (t *Tx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, errNoSQL
}
func (t *Tx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *Tx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *Tx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, errNoSQL
}
func (t *Tx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoSQL
}
func (t *Tx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, errNoSQL }
func (t *Tx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return errRow{} }
func (t *Tx) Conn() *pgx.Conn                                               { return nil }

type errRow struct{}

func (errRow) Scan(...any) error { return errNoSQL }

// Ping reports the store as healthy. It implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name returns the dependency name.
func (s *Store) Name() string { return "memory" }
