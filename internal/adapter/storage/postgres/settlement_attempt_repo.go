package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const attemptColumns = `payment_id, wallet_address, token_symbol, usd_amount, token_amount,
		token_amount_wei::text, payment_tx_hash, referrer, bonus_amount, status,
		settlement_tx_hash, failure_reason, created_at, updated_at`

// reservingStatuses are the attempt states that still count against cap and supply.
var reservingStatuses = []string{
	string(domain.AttemptStatusPending),
	string(domain.AttemptStatusSubmitted),
	string(domain.AttemptStatusIndeterminate),
	string(domain.AttemptStatusManualReview),
}

// SettlementAttemptRepo implements ports.SettlementAttemptRepository using PostgreSQL.
type SettlementAttemptRepo struct {
	pool Pool
}

// NewSettlementAttemptRepo creates a new SettlementAttemptRepo.
func NewSettlementAttemptRepo(pool Pool) *SettlementAttemptRepo {
	return &SettlementAttemptRepo{pool: pool}
}

// LockWallet takes a transaction-scoped advisory lock keyed by wallet.
func (r *SettlementAttemptRepo) LockWallet(ctx context.Context, tx pgx.Tx, wallet string) error {
	if tx == nil {
		return errors.New("lock wallet: transaction required")
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, wallet); err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}
	return nil
}

// Create inserts a new attempt.
func (r *SettlementAttemptRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.SettlementAttempt) error {
	query := `INSERT INTO settlement_attempts (payment_id, wallet_address, token_symbol, usd_amount, token_amount,
			token_amount_wei, payment_tx_hash, referrer, bonus_amount, status,
			settlement_tx_hash, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14)`

	wei := "0"
	if a.TokenAmountWei != nil {
		wei = a.TokenAmountWei.String()
	}

	_, err := conn(r.pool, tx).Exec(ctx, query,
		a.PaymentID, a.WalletAddress, string(a.TokenSymbol), a.USDAmount, a.TokenAmount,
		wei, a.PaymentTxHash, a.Referrer, a.BonusAmount, string(a.Status),
		a.SettlementTxHash, a.FailureReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement attempt: %w", err)
	}
	return nil
}

// Get retrieves an attempt by payment id.
func (r *SettlementAttemptRepo) Get(ctx context.Context, paymentID string) (*domain.SettlementAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM settlement_attempts WHERE payment_id = $1`
	return scanAttempt(r.pool.QueryRow(ctx, query, paymentID))
}

// GetActiveByPaymentTxHash returns the newest non-FAILED attempt for a client payment.
func (r *SettlementAttemptRepo) GetActiveByPaymentTxHash(ctx context.Context, tx pgx.Tx, paymentTxHash string) (*domain.SettlementAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM settlement_attempts
		WHERE payment_tx_hash = $1 AND status <> 'FAILED'
		ORDER BY created_at DESC LIMIT 1`
	return scanAttempt(conn(r.pool, tx).QueryRow(ctx, query, paymentTxHash))
}

// SumReserved returns the token quantity held by attempts that still reserve allocation.
func (r *SettlementAttemptRepo) SumReserved(ctx context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(token_amount), 0) FROM settlement_attempts
		WHERE wallet_address = $1 AND token_symbol = $2 AND status = ANY($3)`

	var total decimal.Decimal
	if err := conn(r.pool, tx).QueryRow(ctx, query, wallet, string(symbol), reservingStatuses).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum reserved tokens: %w", err)
	}
	return total, nil
}

// UpdateStatus applies update only if the current status is one of from.
// Nil hash or reason leaves the stored value unchanged.
func (r *SettlementAttemptRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, paymentID string, from []domain.AttemptStatus, update ports.AttemptUpdate) (bool, error) {
	query := `UPDATE settlement_attempts SET
			status = $2,
			settlement_tx_hash = COALESCE($3, settlement_tx_hash),
			failure_reason = COALESCE($4, failure_reason),
			updated_at = $5
		WHERE payment_id = $1 AND status = ANY($6)`

	tag, err := conn(r.pool, tx).Exec(ctx, query,
		paymentID, string(update.Status), update.SettlementTxHash, update.FailureReason,
		update.At, statusStrings(from),
	)
	if err != nil {
		return false, fmt.Errorf("update settlement attempt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByStatus returns attempts in any of statuses last updated before the cutoff.
func (r *SettlementAttemptRepo) ListByStatus(ctx context.Context, statuses []domain.AttemptStatus, updatedBefore time.Time, limit int) ([]domain.SettlementAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM settlement_attempts
		WHERE status = ANY($1) AND updated_at < $2
		ORDER BY updated_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, statusStrings(statuses), updatedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list settlement attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.SettlementAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement attempts: %w", err)
	}
	return attempts, nil
}

func statusStrings(statuses []domain.AttemptStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanAttempt(row pgx.Row) (*domain.SettlementAttempt, error) {
	var (
		a   domain.SettlementAttempt
		wei string
	)
	err := row.Scan(
		&a.PaymentID, &a.WalletAddress, &a.TokenSymbol, &a.USDAmount, &a.TokenAmount,
		&wei, &a.PaymentTxHash, &a.Referrer, &a.BonusAmount, &a.Status,
		&a.SettlementTxHash, &a.FailureReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan settlement attempt: %w", err)
	}

	amount, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return nil, fmt.Errorf("scan settlement attempt %s: invalid token_amount_wei %q", a.PaymentID, wei)
	}
	a.TokenAmountWei = amount
	return &a, nil
}
