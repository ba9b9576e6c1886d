package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/internal/metrics"

	"github.com/rs/zerolog"
)

// Reconciler defaults.
const (
	DefaultReconcileGrace  = 2 * time.Minute
	DefaultReconcileMaxAge = 24 * time.Hour
	DefaultReconcileBatch  = 100
)

// ReconcilerConfig bounds one reconciliation pass.
type ReconcilerConfig struct {
	// Grace is how long a record must sit untouched before it is examined.
	Grace time.Duration
	// MaxAge is how long an unresolved record may wait before an operator is paged.
	MaxAge time.Duration
	// BatchSize caps the records loaded per status per pass.
	BatchSize int
}

func (c ReconcilerConfig) withDefaults() ReconcilerConfig {
	if c.Grace <= 0 {
		c.Grace = DefaultReconcileGrace
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultReconcileMaxAge
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultReconcileBatch
	}
	return c
}

// ReconcilerImpl resolves settlements and claims whose outcome was unknown
// when the request returned. It only reads receipts; it never resubmits.
type ReconcilerImpl struct {
	attemptRepo  ports.SettlementAttemptRepository
	purchaseRepo ports.PurchaseRepository
	ledger       *SettlementLedger
	oracle       ports.SettlementOracle
	alerts       ports.AlertService
	audit        ports.AuditService
	clock        ports.Clock
	cfg          ReconcilerConfig
	log          zerolog.Logger

	mu    sync.Mutex // one pass at a time
	paged sync.Map   // purchase id -> struct{}, claims already escalated
}

// NewReconciler creates a new ReconcilerImpl.
func NewReconciler(
	attemptRepo ports.SettlementAttemptRepository,
	purchaseRepo ports.PurchaseRepository,
	ledger *SettlementLedger,
	oracle ports.SettlementOracle,
	alerts ports.AlertService,
	audit ports.AuditService,
	clock ports.Clock,
	cfg ReconcilerConfig,
	log zerolog.Logger,
) *ReconcilerImpl {
	return &ReconcilerImpl{
		attemptRepo:  attemptRepo,
		purchaseRepo: purchaseRepo,
		ledger:       ledger,
		oracle:       oracle,
		alerts:       alerts,
		audit:        audit,
		clock:        clock,
		cfg:          cfg.withDefaults(),
		log:          log,
	}
}

// RunOnce runs a single reconciliation pass. Per-record failures are logged
// and left for the next pass; only listing failures abort the pass.
func (r *ReconcilerImpl) RunOnce(ctx context.Context) (*ports.ReconcileReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &ports.ReconcileReport{}
	now := r.clock.Now()

	// Pass 1: settlements awaiting a verdict
	attempts, err := r.attemptRepo.ListByStatus(ctx, []domain.AttemptStatus{
		domain.AttemptStatusSubmitted,
		domain.AttemptStatusIndeterminate,
		domain.AttemptStatusManualReview,
	}, now.Add(-r.cfg.Grace), r.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list open attempts: %w", err)
	}
	for i := range attempts {
		r.reconcileAttempt(ctx, &attempts[i], now, report)
	}

	// Pass 2: reservations that never reached the oracle
	stale, err := r.attemptRepo.ListByStatus(ctx, []domain.AttemptStatus{domain.AttemptStatusPending}, now.Add(-r.cfg.MaxAge), r.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list pending attempts: %w", err)
	}
	for i := range stale {
		r.fail(ctx, &stale[i], "reservation expired before settlement", report)
	}

	// Pass 3: claims whose transfer outcome is unknown
	for _, status := range []domain.ClaimStatus{domain.ClaimStatusIndeterminate, domain.ClaimStatusProcessing} {
		cutoff := now.Add(-r.cfg.Grace)
		if status == domain.ClaimStatusProcessing {
			cutoff = now.Add(-r.cfg.MaxAge)
		}
		claims, err := r.purchaseRepo.ListByClaimStatus(ctx, status, cutoff, r.cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("list %s claims: %w", status, err)
		}
		for i := range claims {
			r.reconcileClaim(ctx, &claims[i], now, report)
		}
	}

	if report.Committed+report.Failed+report.ManualReview+report.ClaimsComplete+report.ClaimsReleased > 0 {
		r.audit.Log(ctx, &domain.AuditLog{
			Action:       domain.AuditActionReconcile,
			ResourceType: "reconciler",
			ResourceID:   now.Format(time.RFC3339),
			Details: fmt.Sprintf(`{"committed":%d,"failed":%d,"manual_review":%d,"pending":%d,"claims_completed":%d,"claims_released":%d}`,
				report.Committed, report.Failed, report.ManualReview, report.Pending, report.ClaimsComplete, report.ClaimsReleased),
			CreatedAt: now,
		})
	}

	r.log.Info().
		Int("committed", report.Committed).
		Int("failed", report.Failed).
		Int("manual_review", report.ManualReview).
		Int("pending", report.Pending).
		Int("claims_completed", report.ClaimsComplete).
		Int("claims_released", report.ClaimsReleased).
		Msg("reconciliation pass complete")

	return report, nil
}

func (r *ReconcilerImpl) reconcileAttempt(ctx context.Context, attempt *domain.SettlementAttempt, now time.Time, report *ports.ReconcileReport) {
	log := r.log.With().Str("payment_id", attempt.PaymentID).Str("status", string(attempt.Status)).Logger()

	if attempt.SettlementTxHash == nil || *attempt.SettlementTxHash == "" {
		// Broadcast outcome unknown and nothing to look up.
		if attempt.Status == domain.AttemptStatusManualReview {
			report.Pending++
			return
		}
		r.escalate(ctx, attempt, "settlement broadcast outcome unknown", report)
		return
	}
	txHash := *attempt.SettlementTxHash

	receipt, err := r.oracle.Receipt(ctx, txHash)
	if err != nil {
		log.Warn().Err(err).Str("tx_hash", txHash).Msg("receipt lookup failed")
		report.Pending++
		return
	}

	switch receipt.Status {
	case domain.ReceiptSuccess:
		purchase, err := r.ledger.Commit(ctx, attempt, txHash)
		if err != nil {
			log.Error().Err(err).Str("tx_hash", txHash).Msg("commit of confirmed settlement failed")
			report.Pending++
			return
		}
		report.Committed++
		metrics.RecordReconcilerAction("committed")
		metrics.RecordPurchase(string(purchase.TokenSymbol), "committed")
		metrics.RecordTokensSold(string(purchase.TokenSymbol), purchase.TokenAmount.InexactFloat64())
		log.Info().Str("purchase_id", purchase.ID.String()).Str("tx_hash", txHash).Msg("settlement committed by reconciler")
	case domain.ReceiptReverted:
		r.fail(ctx, attempt, "settlement reverted: "+txHash, report)
	default:
		if attempt.Status != domain.AttemptStatusManualReview && now.Sub(attempt.CreatedAt) >= r.cfg.MaxAge {
			r.escalate(ctx, attempt, "settlement unmined past max age", report)
			return
		}
		report.Pending++
	}
}

func (r *ReconcilerImpl) fail(ctx context.Context, attempt *domain.SettlementAttempt, reason string, report *ports.ReconcileReport) {
	ok, err := r.ledger.Release(ctx, attempt, reason)
	if err != nil {
		r.log.Error().Err(err).Str("payment_id", attempt.PaymentID).Msg("release of failed settlement failed")
		report.Pending++
		return
	}
	if ok {
		report.Failed++
		metrics.RecordReconcilerAction("failed")
		r.log.Info().Str("payment_id", attempt.PaymentID).Str("reason", reason).Msg("settlement failed by reconciler")
	}
}

func (r *ReconcilerImpl) escalate(ctx context.Context, attempt *domain.SettlementAttempt, reason string, report *ports.ReconcileReport) {
	ok, err := r.ledger.Transition(ctx, attempt,
		[]domain.AttemptStatus{domain.AttemptStatusSubmitted, domain.AttemptStatusIndeterminate},
		domain.AttemptStatusManualReview, nil)
	if err != nil {
		r.log.Error().Err(err).Str("payment_id", attempt.PaymentID).Msg("failed to move settlement to manual review")
		report.Pending++
		return
	}
	if !ok {
		return
	}
	report.ManualReview++
	metrics.RecordReconcilerAction("manual_review")

	details := map[string]any{"reason": reason, "payment_tx_hash": attempt.PaymentTxHash}
	if attempt.SettlementTxHash != nil {
		details["tx_hash"] = *attempt.SettlementTxHash
	}
	r.alerts.Notify(ctx, domain.Alert{
		Event:         domain.AlertManualReview,
		Reference:     attempt.PaymentID,
		WalletAddress: attempt.WalletAddress,
		Message:       "settlement requires manual review",
		Details:       details,
		OccurredAt:    r.clock.Now(),
	})
}

func (r *ReconcilerImpl) reconcileClaim(ctx context.Context, p *domain.Purchase, now time.Time, report *ports.ReconcileReport) {
	log := r.log.With().Str("purchase_id", p.ID.String()).Str("claim_status", string(p.ClaimStatus)).Logger()

	if p.TransferTxHash == nil || *p.TransferTxHash == "" {
		if now.Sub(p.UpdatedAt) >= r.cfg.MaxAge {
			r.pageClaim(ctx, p, "claim transfer outcome unknown")
		}
		report.Pending++
		return
	}
	txHash := *p.TransferTxHash

	receipt, err := r.oracle.Receipt(ctx, txHash)
	if err != nil {
		log.Warn().Err(err).Str("tx_hash", txHash).Msg("receipt lookup failed")
		report.Pending++
		return
	}

	switch receipt.Status {
	case domain.ReceiptSuccess:
		ok, err := r.purchaseRepo.CompleteClaim(ctx, p.ID, txHash, r.clock.Now())
		if err != nil {
			log.Error().Err(err).Msg("completing claim failed")
			report.Pending++
			return
		}
		if ok {
			report.ClaimsComplete++
			r.paged.Delete(p.ID)
			metrics.RecordReconcilerAction("claim_completed")
			metrics.RecordClaim("claimed")
			log.Info().Str("tx_hash", txHash).Msg("claim completed by reconciler")
		}
	case domain.ReceiptReverted:
		ok, err := r.purchaseRepo.ReleaseClaim(ctx, p.ID, r.clock.Now())
		if err != nil {
			log.Error().Err(err).Msg("releasing claim failed")
			report.Pending++
			return
		}
		if ok {
			report.ClaimsReleased++
			r.paged.Delete(p.ID)
			metrics.RecordReconcilerAction("claim_released")
			log.Info().Str("tx_hash", txHash).Msg("claim released by reconciler")
		}
	default:
		if now.Sub(p.UpdatedAt) >= r.cfg.MaxAge {
			r.pageClaim(ctx, p, "claim transfer unmined past max age")
		}
		report.Pending++
	}
}

// pageClaim alerts once per purchase for as long as the process lives.
func (r *ReconcilerImpl) pageClaim(ctx context.Context, p *domain.Purchase, reason string) {
	if _, seen := r.paged.LoadOrStore(p.ID, struct{}{}); seen {
		return
	}
	metrics.RecordReconcilerAction("claim_escalated")
	details := map[string]any{"reason": reason, "claim_status": string(p.ClaimStatus)}
	if p.TransferTxHash != nil {
		details["tx_hash"] = *p.TransferTxHash
	}
	r.alerts.Notify(ctx, domain.Alert{
		Event:         domain.AlertManualReview,
		Reference:     p.ID.String(),
		WalletAddress: p.WalletAddress,
		Message:       "claim requires manual review",
		Details:       details,
		OccurredAt:    r.clock.Now(),
	})
}
