package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const purchaseColumns = `id, wallet_address, token_symbol, amount, token_amount, payment_tx_hash, payment_id,
		settlement_tx_hash, transfer_tx_hash, purchase_date, claim_date, claimed, claim_status, referrer, updated_at`

// PurchaseRepo implements ports.PurchaseRepository using PostgreSQL.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// Create inserts a settled purchase.
func (r *PurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := conn(r.pool, tx).Exec(ctx, query,
		p.ID, p.WalletAddress, string(p.TokenSymbol), p.Amount, p.TokenAmount,
		p.PaymentTxHash, p.PaymentID, p.SettlementTxHash, p.TransferTxHash,
		p.PurchaseDate, p.ClaimDate, p.Claimed, string(p.ClaimStatus), p.Referrer, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase by its UUID.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	return scanPurchase(r.pool.QueryRow(ctx, query, id))
}

// GetByPaymentTxHash retrieves the purchase settled for a client payment.
func (r *PurchaseRepo) GetByPaymentTxHash(ctx context.Context, paymentTxHash string) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE payment_tx_hash = $1`
	return scanPurchase(r.pool.QueryRow(ctx, query, paymentTxHash))
}

// ListByWallet returns a wallet's purchases, newest first.
func (r *PurchaseRepo) ListByWallet(ctx context.Context, wallet string) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE wallet_address = $1 ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("list purchases by wallet: %w", err)
	}
	return collectPurchases(rows)
}

// SumTokens returns the committed token quantity of one offering held by wallet.
func (r *PurchaseRepo) SumTokens(ctx context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(token_amount), 0) FROM purchases
		WHERE wallet_address = $1 AND token_symbol = $2`

	var total decimal.Decimal
	if err := conn(r.pool, tx).QueryRow(ctx, query, wallet, string(symbol)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum purchased tokens: %w", err)
	}
	return total, nil
}

// BeginClaim moves UNCLAIMED -> PROCESSING.
func (r *PurchaseRepo) BeginClaim(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(ctx, "begin claim",
		`UPDATE purchases SET claim_status = 'PROCESSING', updated_at = $2
		 WHERE id = $1 AND claim_status = 'UNCLAIMED' AND claimed = FALSE`,
		id, at)
}

// RecordTransfer stores the transfer hash of a PROCESSING claim.
func (r *PurchaseRepo) RecordTransfer(ctx context.Context, id uuid.UUID, transferTxHash string, at time.Time) (bool, error) {
	return r.transition(ctx, "record transfer",
		`UPDATE purchases SET transfer_tx_hash = $2, updated_at = $3
		 WHERE id = $1 AND claim_status = 'PROCESSING'`,
		id, transferTxHash, at)
}

// CompleteClaim moves PROCESSING|INDETERMINATE -> CLAIMED.
func (r *PurchaseRepo) CompleteClaim(ctx context.Context, id uuid.UUID, transferTxHash string, claimedAt time.Time) (bool, error) {
	return r.transition(ctx, "complete claim",
		`UPDATE purchases
		 SET claimed = TRUE, claim_date = $3, claim_status = 'CLAIMED', transfer_tx_hash = $2, updated_at = $3
		 WHERE id = $1 AND claim_status IN ('PROCESSING', 'INDETERMINATE') AND claimed = FALSE`,
		id, transferTxHash, claimedAt)
}

// ReleaseClaim moves PROCESSING|INDETERMINATE -> UNCLAIMED.
func (r *PurchaseRepo) ReleaseClaim(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(ctx, "release claim",
		`UPDATE purchases SET claim_status = 'UNCLAIMED', transfer_tx_hash = NULL, updated_at = $2
		 WHERE id = $1 AND claim_status IN ('PROCESSING', 'INDETERMINATE') AND claimed = FALSE`,
		id, at)
}

// MarkClaimIndeterminate moves PROCESSING -> INDETERMINATE.
func (r *PurchaseRepo) MarkClaimIndeterminate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(ctx, "mark claim indeterminate",
		`UPDATE purchases SET claim_status = 'INDETERMINATE', updated_at = $2
		 WHERE id = $1 AND claim_status = 'PROCESSING'`,
		id, at)
}

// ListByClaimStatus returns purchases in status last updated before the cutoff.
func (r *PurchaseRepo) ListByClaimStatus(ctx context.Context, status domain.ClaimStatus, updatedBefore time.Time, limit int) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE claim_status = $1 AND updated_at < $2
		ORDER BY updated_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(status), updatedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list purchases by claim status: %w", err)
	}
	return collectPurchases(rows)
}

func (r *PurchaseRepo) transition(ctx context.Context, op, query string, args ...any) (bool, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func collectPurchases(rows pgx.Rows) ([]domain.Purchase, error) {
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}

// scanPurchase scans one row; a missing row yields nil, nil.
func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.ID, &p.WalletAddress, &p.TokenSymbol, &p.Amount, &p.TokenAmount,
		&p.PaymentTxHash, &p.PaymentID, &p.SettlementTxHash, &p.TransferTxHash,
		&p.PurchaseDate, &p.ClaimDate, &p.Claimed, &p.ClaimStatus, &p.Referrer, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	return &p, nil
}
