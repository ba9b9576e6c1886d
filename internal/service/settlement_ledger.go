package service

import (
	"context"
	"fmt"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// openAttemptStatuses are the states a settlement may be confirmed or failed from.
var openAttemptStatuses = []domain.AttemptStatus{
	domain.AttemptStatusPending,
	domain.AttemptStatusSubmitted,
	domain.AttemptStatusIndeterminate,
	domain.AttemptStatusManualReview,
}

// SettlementLedger owns the ledger writes that close a settlement attempt.
// The purchase path and the reconciler share it so both commit identically.
type SettlementLedger struct {
	purchaseRepo ports.PurchaseRepository
	tokenRepo    ports.TokenConfigRepository
	referralRepo ports.ReferralRepository
	attemptRepo  ports.SettlementAttemptRepository
	transactor   ports.DBTransactor
	clock        ports.Clock
	log          zerolog.Logger
}

// NewSettlementLedger creates a new SettlementLedger.
func NewSettlementLedger(
	purchaseRepo ports.PurchaseRepository,
	tokenRepo ports.TokenConfigRepository,
	referralRepo ports.ReferralRepository,
	attemptRepo ports.SettlementAttemptRepository,
	transactor ports.DBTransactor,
	clock ports.Clock,
	log zerolog.Logger,
) *SettlementLedger {
	return &SettlementLedger{
		purchaseRepo: purchaseRepo,
		tokenRepo:    tokenRepo,
		referralRepo: referralRepo,
		attemptRepo:  attemptRepo,
		transactor:   transactor,
		clock:        clock,
		log:          log,
	}
}

// Commit records the purchase of a confirmed settlement in one transaction:
// attempt CONFIRMED, purchase inserted, referral credited.
// If another actor already confirmed the attempt, the existing purchase is returned.
func (l *SettlementLedger) Commit(ctx context.Context, attempt *domain.SettlementAttempt, settlementTxHash string) (*domain.Purchase, error) {
	now := l.clock.Now()

	dbTx, err := l.transactor.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := l.attemptRepo.UpdateStatus(ctx, dbTx, attempt.PaymentID, openAttemptStatuses, ports.AttemptUpdate{
		Status:           domain.AttemptStatusConfirmed,
		SettlementTxHash: &settlementTxHash,
		At:               now,
	})
	if err != nil {
		return nil, fmt.Errorf("confirm attempt: %w", err)
	}
	if !ok {
		_ = dbTx.Rollback(ctx)
		return l.alreadyClosed(ctx, attempt)
	}

	purchase := &domain.Purchase{
		ID:               uuid.New(),
		WalletAddress:    attempt.WalletAddress,
		TokenSymbol:      attempt.TokenSymbol,
		Amount:           attempt.USDAmount,
		TokenAmount:      attempt.TokenAmount,
		PaymentTxHash:    attempt.PaymentTxHash,
		PaymentID:        attempt.PaymentID,
		SettlementTxHash: settlementTxHash,
		PurchaseDate:     now,
		ClaimStatus:      domain.ClaimStatusUnclaimed,
		Referrer:         attempt.Referrer,
		UpdatedAt:        now,
	}
	if err := l.purchaseRepo.Create(ctx, dbTx, purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	if attempt.Referrer != nil {
		if err := l.creditReferral(ctx, dbTx, attempt, now); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	attempt.Status = domain.AttemptStatusConfirmed
	attempt.SettlementTxHash = &settlementTxHash
	return purchase, nil
}

// creditReferral links the buyer to its referrer and records the purchase bonus.
func (l *SettlementLedger) creditReferral(ctx context.Context, dbTx pgx.Tx, attempt *domain.SettlementAttempt, now time.Time) error {
	link, _, err := l.referralRepo.CreateIfAbsent(ctx, dbTx, &domain.ReferralLink{
		ID:          uuid.New(),
		Referrer:    *attempt.Referrer,
		Referred:    attempt.WalletAddress,
		BonusAmount: decimal.Zero,
		Timestamp:   now,
	})
	if err != nil {
		return fmt.Errorf("upsert referral link: %w", err)
	}

	bonus := decimal.Zero
	if attempt.BonusAmount != nil {
		bonus = *attempt.BonusAmount
	}
	err = l.referralRepo.AddPurchase(ctx, dbTx, link.ID, domain.ReferralPurchase{
		Amount:    attempt.USDAmount,
		Bonus:     bonus,
		Timestamp: now,
	})
	if err != nil {
		return fmt.Errorf("credit referral: %w", err)
	}
	return nil
}

// alreadyClosed resolves a commit that lost the race for the attempt.
func (l *SettlementLedger) alreadyClosed(ctx context.Context, attempt *domain.SettlementAttempt) (*domain.Purchase, error) {
	current, err := l.attemptRepo.Get(ctx, attempt.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("reload attempt: %w", err)
	}
	if current != nil && current.Status == domain.AttemptStatusConfirmed {
		existing, err := l.purchaseRepo.GetByPaymentTxHash(ctx, attempt.PaymentTxHash)
		if err != nil {
			return nil, fmt.Errorf("load committed purchase: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("attempt %s is no longer open", attempt.PaymentID)
}

// Release fails an open attempt and returns its supply reservation.
// It reports false if the attempt was already closed.
func (l *SettlementLedger) Release(ctx context.Context, attempt *domain.SettlementAttempt, reason string) (bool, error) {
	dbTx, err := l.transactor.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := l.attemptRepo.UpdateStatus(ctx, dbTx, attempt.PaymentID, openAttemptStatuses, ports.AttemptUpdate{
		Status:        domain.AttemptStatusFailed,
		FailureReason: &reason,
		At:            l.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("fail attempt: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := l.tokenRepo.ReleaseSupply(ctx, dbTx, attempt.TokenSymbol, attempt.TokenAmount); err != nil {
		return false, fmt.Errorf("release supply: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}

	attempt.Status = domain.AttemptStatusFailed
	attempt.FailureReason = &reason
	return true, nil
}

// Transition moves an attempt between non-terminal states outside a transaction.
func (l *SettlementLedger) Transition(ctx context.Context, attempt *domain.SettlementAttempt, from []domain.AttemptStatus, to domain.AttemptStatus, txHash *string) (bool, error) {
	ok, err := l.attemptRepo.UpdateStatus(ctx, nil, attempt.PaymentID, from, ports.AttemptUpdate{
		Status:           to,
		SettlementTxHash: txHash,
		At:               l.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("update attempt: %w", err)
	}
	if ok {
		attempt.Status = to
		if txHash != nil {
			attempt.SettlementTxHash = txHash
		}
	}
	return ok, nil
}
