package ports

import (
	"context"
	"time"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PurchaseRepository defines persistence operations for purchases.
// Methods accepting pgx.Tx run inside the caller's transaction; a nil tx
// runs the statement on its own.
type PurchaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	GetByPaymentTxHash(ctx context.Context, paymentTxHash string) (*domain.Purchase, error)
	ListByWallet(ctx context.Context, wallet string) ([]domain.Purchase, error)
	// SumTokens returns the committed token quantity of one offering held by wallet.
	SumTokens(ctx context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error)

	// Claim state machine. Every transition is a single conditional write and
	// reports whether it applied.

	// BeginClaim moves UNCLAIMED -> PROCESSING only while claimed is false.
	BeginClaim(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// RecordTransfer stores the transfer hash of a PROCESSING claim.
	RecordTransfer(ctx context.Context, id uuid.UUID, transferTxHash string, at time.Time) (bool, error)
	// CompleteClaim moves PROCESSING|INDETERMINATE -> CLAIMED and sets claimed, claim_date.
	CompleteClaim(ctx context.Context, id uuid.UUID, transferTxHash string, claimedAt time.Time) (bool, error)
	// ReleaseClaim moves PROCESSING|INDETERMINATE -> UNCLAIMED and clears the transfer hash.
	ReleaseClaim(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// MarkClaimIndeterminate moves PROCESSING -> INDETERMINATE.
	MarkClaimIndeterminate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// ListByClaimStatus returns purchases in status last updated before the cutoff.
	ListByClaimStatus(ctx context.Context, status domain.ClaimStatus, updatedBefore time.Time, limit int) ([]domain.Purchase, error)
}

// TokenConfigRepository defines persistence operations for token sale configuration.
type TokenConfigRepository interface {
	// Upsert creates or updates a config. SoldAmount is never overwritten.
	Upsert(ctx context.Context, cfg *domain.TokenConfig) error
	GetBySymbol(ctx context.Context, symbol domain.TokenSymbol) (*domain.TokenConfig, error)
	List(ctx context.Context) ([]domain.TokenConfig, error)
	// ReserveSupply adds qty to sold_amount only if it stays within total_supply.
	ReserveSupply(ctx context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) (bool, error)
	ReleaseSupply(ctx context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) error
}

// ReferralRepository defines persistence operations for referral links.
type ReferralRepository interface {
	// CreateIfAbsent inserts link unless the pair exists, and returns the stored link.
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, link *domain.ReferralLink) (*domain.ReferralLink, bool, error)
	GetByPair(ctx context.Context, referrer, referred string) (*domain.ReferralLink, error)
	AddPurchase(ctx context.Context, tx pgx.Tx, linkID uuid.UUID, purchase domain.ReferralPurchase) error
	ListByReferrer(ctx context.Context, referrer string) ([]domain.ReferralLink, error)
}

// SettlementAttemptRepository persists settlement reservations.
type SettlementAttemptRepository interface {
	// LockWallet serializes reservations of one wallet until tx ends.
	LockWallet(ctx context.Context, tx pgx.Tx, wallet string) error
	Create(ctx context.Context, tx pgx.Tx, attempt *domain.SettlementAttempt) error
	Get(ctx context.Context, paymentID string) (*domain.SettlementAttempt, error)
	// GetActiveByPaymentTxHash returns the newest non-FAILED attempt for a client payment.
	GetActiveByPaymentTxHash(ctx context.Context, tx pgx.Tx, paymentTxHash string) (*domain.SettlementAttempt, error)
	// SumReserved returns the token quantity held by attempts that still hold a reservation.
	SumReserved(ctx context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error)
	// UpdateStatus applies update only if the current status is one of from.
	UpdateStatus(ctx context.Context, tx pgx.Tx, paymentID string, from []domain.AttemptStatus, update AttemptUpdate) (bool, error)
	ListByStatus(ctx context.Context, statuses []domain.AttemptStatus, updatedBefore time.Time, limit int) ([]domain.SettlementAttempt, error)
}

// AttemptUpdate is the set of fields a status transition may write.
type AttemptUpdate struct {
	Status           domain.AttemptStatus
	SettlementTxHash *string
	FailureReason    *string
	At               time.Time
}

// AuditRepository defines persistence for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
