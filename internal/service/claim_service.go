package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/internal/metrics"
	"presale-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClaimServiceImpl implements ports.ClaimService.
type ClaimServiceImpl struct {
	purchaseRepo ports.PurchaseRepository
	tokenRepo    ports.TokenConfigRepository
	oracle       ports.SettlementOracle
	audit        ports.AuditService
	alerts       ports.AlertService
	clock        ports.Clock
	timeout      time.Duration
	log          zerolog.Logger
}

// NewClaimService creates a new ClaimServiceImpl.
func NewClaimService(
	purchaseRepo ports.PurchaseRepository,
	tokenRepo ports.TokenConfigRepository,
	oracle ports.SettlementOracle,
	audit ports.AuditService,
	alerts ports.AlertService,
	clock ports.Clock,
	settlementTimeout time.Duration,
	log zerolog.Logger,
) *ClaimServiceImpl {
	return &ClaimServiceImpl{
		purchaseRepo: purchaseRepo,
		tokenRepo:    tokenRepo,
		oracle:       oracle,
		audit:        audit,
		alerts:       alerts,
		clock:        clock,
		timeout:      settlementTimeout,
		log:          log,
	}
}

// Claim transfers a vested purchase's tokens to its owner. At most one
// claim per purchase succeeds: BeginClaim is the single gate in front of
// the oracle.
func (s *ClaimServiceImpl) Claim(ctx context.Context, purchaseID uuid.UUID, wallet string) (*ports.ClaimResult, error) {
	// Check 1: purchase exists
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load purchase: %w", err))
	}
	if purchase == nil {
		return nil, apperror.ErrNotFound("Purchase")
	}

	// Check 2: ownership
	if !purchase.OwnedBy(wallet) {
		return nil, apperror.ErrUnauthorized()
	}

	// Check 3: not yet claimed
	if purchase.Claimed {
		return nil, apperror.ErrAlreadyClaimed()
	}

	// Check 4: token configuration
	token, err := s.loadToken(ctx, purchase.TokenSymbol)
	if err != nil {
		return nil, err
	}

	// Check 5: vesting
	vesting := domain.Vesting(purchase.PurchaseDate, token.VestingPeriodDays, s.clock.Now())
	if !vesting.Claimable {
		return nil, apperror.ErrVestingNotComplete(vesting.VestingEnd, vesting.RemainingDays)
	}

	// Gate: UNCLAIMED -> PROCESSING. Losers never reach the oracle.
	ok, err := s.purchaseRepo.BeginClaim(ctx, purchase.ID, s.clock.Now())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin claim: %w", err))
	}
	if !ok {
		metrics.RecordClaim("contended")
		return nil, s.contended(ctx, purchase.ID)
	}

	bg := context.WithoutCancel(ctx)
	amount := token.BaseUnits(purchase.TokenAmount)

	txHash, receipt, err := s.transfer(bg, purchase, token, amount)
	switch {
	case err != nil && (txHash == "" || isDefiniteFailure(err)):
		s.release(bg, purchase.ID)
		metrics.RecordClaim("failed")
		return nil, apperror.ErrSettlementUnavailable(err)
	case err != nil:
		return nil, s.indeterminate(bg, purchase, txHash, err)
	case receipt.Status == domain.ReceiptReverted:
		s.release(bg, purchase.ID)
		metrics.RecordClaim("failed")
		return nil, apperror.ErrSettlementUnavailable(fmt.Errorf("transfer %s reverted", txHash))
	}

	claimedAt := s.clock.Now()
	ok, err = s.purchaseRepo.CompleteClaim(bg, purchase.ID, txHash, claimedAt)
	if err != nil || !ok {
		if err == nil {
			err = errors.New("claim left PROCESSING before completion")
		}
		return nil, s.indeterminate(bg, purchase, txHash, err)
	}

	purchase.Claimed = true
	purchase.ClaimDate = &claimedAt
	purchase.ClaimStatus = domain.ClaimStatusClaimed
	purchase.TransferTxHash = &txHash

	s.audit.Log(bg, &domain.AuditLog{
		WalletAddress: &purchase.WalletAddress,
		Action:        domain.AuditActionClaim,
		ResourceType:  "purchase",
		ResourceID:    purchase.ID.String(),
		Details:       fmt.Sprintf(`{"tx_hash":%q,"base_units":%q}`, txHash, amount.String()),
		CreatedAt:     claimedAt,
	})
	metrics.RecordClaim("claimed")

	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("wallet", purchase.WalletAddress).
		Str("base_units", amount.String()).
		Str("tx_hash", txHash).
		Msg("claim completed")

	return &ports.ClaimResult{Purchase: purchase, TransferTxHash: txHash, BaseUnits: amount}, nil
}

// ClaimStatus returns the vesting and claim state of a purchase.
func (s *ClaimServiceImpl) ClaimStatus(ctx context.Context, purchaseID uuid.UUID) (*ports.ClaimStatusView, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load purchase: %w", err))
	}
	if purchase == nil {
		return nil, apperror.ErrNotFound("Purchase")
	}

	token, err := s.loadToken(ctx, purchase.TokenSymbol)
	if err != nil {
		return nil, err
	}

	return &ports.ClaimStatusView{
		Purchase: purchase,
		Vesting:  domain.Vesting(purchase.PurchaseDate, token.VestingPeriodDays, s.clock.Now()),
	}, nil
}

// ListPurchases returns a wallet's purchases with their vesting status.
func (s *ClaimServiceImpl) ListPurchases(ctx context.Context, wallet string) ([]ports.PurchaseView, error) {
	if !domain.IsValidAddress(wallet) {
		return nil, apperror.Validation("walletAddress must be a 0x-prefixed 20-byte hex address")
	}

	purchases, err := s.purchaseRepo.ListByWallet(ctx, domain.NormalizeAddress(wallet))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list purchases: %w", err))
	}

	tokens, err := s.tokenRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list token configs: %w", err))
	}
	vestingDays := make(map[domain.TokenSymbol]int, len(tokens))
	for _, t := range tokens {
		vestingDays[t.Symbol] = t.VestingPeriodDays
	}

	now := s.clock.Now()
	views := make([]ports.PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		days, ok := vestingDays[p.TokenSymbol]
		if !ok {
			s.log.Error().Str("token", string(p.TokenSymbol)).Str("purchase_id", p.ID.String()).Msg("token configuration missing")
			views = append(views, ports.PurchaseView{Purchase: p})
			continue
		}
		views = append(views, ports.PurchaseView{Purchase: p, Vesting: domain.Vesting(p.PurchaseDate, days, now)})
	}
	return views, nil
}

func (s *ClaimServiceImpl) loadToken(ctx context.Context, symbol domain.TokenSymbol) (*domain.TokenConfig, error) {
	token, err := s.tokenRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load token config: %w", err))
	}
	if token == nil {
		s.log.Error().Str("token", string(symbol)).Msg("token configuration missing")
		s.alerts.Notify(ctx, domain.Alert{
			Event:      domain.AlertConfigMissing,
			Reference:  string(symbol),
			Message:    "token configuration missing",
			OccurredAt: s.clock.Now(),
		})
		return nil, apperror.ErrConfigMissing(string(symbol))
	}
	return token, nil
}

// transfer broadcasts the token transfer and waits for its receipt under one timeout.
func (s *ClaimServiceImpl) transfer(ctx context.Context, purchase *domain.Purchase, token *domain.TokenConfig, amount *big.Int) (string, *domain.Receipt, error) {
	octx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	txHash, err := s.oracle.Transfer(octx, domain.TransferCall{
		To:            purchase.WalletAddress,
		Amount:        amount,
		TokenContract: token.ContractAddress,
	})
	metrics.RecordOracleCall("transfer", oracleStatus(err), time.Since(start).Seconds())
	if err != nil {
		return txHash, nil, err
	}

	if _, err := s.purchaseRepo.RecordTransfer(ctx, purchase.ID, txHash, s.clock.Now()); err != nil {
		s.log.Warn().Err(err).Str("purchase_id", purchase.ID.String()).Msg("failed to record transfer hash")
	}

	start = time.Now()
	receipt, err := s.oracle.WaitForReceipt(octx, txHash)
	metrics.RecordOracleCall("wait_receipt", oracleStatus(err), time.Since(start).Seconds())
	if err != nil {
		return txHash, nil, err
	}
	return txHash, receipt, nil
}

// contended explains why BeginClaim did not apply.
func (s *ClaimServiceImpl) contended(ctx context.Context, id uuid.UUID) error {
	current, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("reload purchase: %w", err))
	}
	if current != nil && current.Claimed {
		return apperror.ErrAlreadyClaimed()
	}
	return apperror.ErrClaimInProgress()
}

func (s *ClaimServiceImpl) release(ctx context.Context, id uuid.UUID) {
	if _, err := s.purchaseRepo.ReleaseClaim(ctx, id, s.clock.Now()); err != nil {
		s.log.Error().Err(err).Str("purchase_id", id.String()).Msg("failed to release claim")
	}
}

func (s *ClaimServiceImpl) indeterminate(ctx context.Context, purchase *domain.Purchase, txHash string, cause error) error {
	if txHash != "" {
		if _, err := s.purchaseRepo.RecordTransfer(ctx, purchase.ID, txHash, s.clock.Now()); err != nil {
			s.log.Warn().Err(err).Str("purchase_id", purchase.ID.String()).Msg("failed to record transfer hash")
		}
	}
	if _, err := s.purchaseRepo.MarkClaimIndeterminate(ctx, purchase.ID, s.clock.Now()); err != nil {
		s.log.Error().Err(err).Str("purchase_id", purchase.ID.String()).Msg("failed to mark claim indeterminate")
	}

	s.log.Error().Err(cause).
		Str("purchase_id", purchase.ID.String()).
		Str("wallet", purchase.WalletAddress).
		Str("tx_hash", txHash).
		Msg("claim transfer outcome unknown")
	s.alerts.Notify(ctx, domain.Alert{
		Event:         domain.AlertClaimIndeterminate,
		Reference:     purchase.ID.String(),
		WalletAddress: purchase.WalletAddress,
		Message:       "claim transfer outcome unknown, pending reconciliation",
		Details:       map[string]any{"tx_hash": txHash, "error": cause.Error()},
		OccurredAt:    s.clock.Now(),
	})
	metrics.RecordClaim("indeterminate")
	return apperror.ErrIndeterminate(purchase.ID.String())
}
