package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/internal/metrics"
	"presale-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	replayCacheTTL     = 24 * time.Hour
	replayCachePrefix  = "purchase:"
	paymentIDSuffixLen = 4 // bytes, hex-encoded
)

// PurchaseDeps groups the collaborators of PurchaseServiceImpl.
type PurchaseDeps struct {
	PurchaseRepo      ports.PurchaseRepository
	TokenRepo         ports.TokenConfigRepository
	AttemptRepo       ports.SettlementAttemptRepository
	Transactor        ports.DBTransactor
	Ledger            *SettlementLedger
	Guard             *PurchaseLimitGuard
	Oracle            ports.SettlementOracle
	Cache             ports.IdempotencyCache
	Audit             ports.AuditService
	Alerts            ports.AlertService
	Clock             ports.Clock
	SettlementTimeout time.Duration
}

// PurchaseServiceImpl implements ports.PurchaseService.
type PurchaseServiceImpl struct {
	purchaseRepo ports.PurchaseRepository
	tokenRepo    ports.TokenConfigRepository
	attemptRepo  ports.SettlementAttemptRepository
	transactor   ports.DBTransactor
	ledger       *SettlementLedger
	guard        *PurchaseLimitGuard
	oracle       ports.SettlementOracle
	cache        ports.IdempotencyCache
	audit        ports.AuditService
	alerts       ports.AlertService
	clock        ports.Clock
	timeout      time.Duration
	log          zerolog.Logger
}

// NewPurchaseService creates a new PurchaseServiceImpl.
func NewPurchaseService(deps PurchaseDeps, log zerolog.Logger) *PurchaseServiceImpl {
	return &PurchaseServiceImpl{
		purchaseRepo: deps.PurchaseRepo,
		tokenRepo:    deps.TokenRepo,
		attemptRepo:  deps.AttemptRepo,
		transactor:   deps.Transactor,
		ledger:       deps.Ledger,
		guard:        deps.Guard,
		oracle:       deps.Oracle,
		cache:        deps.Cache,
		audit:        deps.Audit,
		alerts:       deps.Alerts,
		clock:        deps.Clock,
		timeout:      deps.SettlementTimeout,
		log:          log,
	}
}

// CheckPurchaseLimit reports whether wallet may buy proposedTokens more of
// the capped offering. It reads committed purchases only.
func (s *PurchaseServiceImpl) CheckPurchaseLimit(ctx context.Context, wallet string, proposedTokens decimal.Decimal) (*ports.LimitCheck, error) {
	if !domain.IsValidAddress(wallet) {
		return nil, apperror.Validation("walletAddress must be a 0x-prefixed 20-byte hex address")
	}
	if proposedTokens.IsNegative() {
		return nil, apperror.Validation("tokenAmount must not be negative")
	}
	wallet = domain.NormalizeAddress(wallet)

	symbol := s.guard.CappedSymbol()
	token, err := s.tokenRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load token config: %w", err))
	}
	limit, _ := s.guard.CapFor(symbol, token)

	check, err := s.guard.Check(ctx, wallet, symbol, limit, proposedTokens)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return check, nil
}

// Purchase validates, reserves, settles and commits a token purchase.
// No purchase is recorded unless the oracle confirmed the payment.
func (s *PurchaseServiceImpl) Purchase(ctx context.Context, req ports.PurchaseRequest) (*ports.PurchaseResult, error) {
	// Step 1: validate input
	in, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	// Step 2: replay a purchase already committed for this payment
	if res, err := s.replay(ctx, in.wallet, req.PaymentTxHash); err != nil || res != nil {
		if res != nil {
			metrics.RecordPurchase(string(in.symbol), "replayed")
		}
		return res, err
	}

	token, err := s.tokenRepo.GetBySymbol(ctx, in.symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load token config: %w", err))
	}
	if token == nil {
		s.configMissing(ctx, in.symbol)
		return nil, apperror.ErrConfigMissing(string(in.symbol))
	}

	// Step 3: map offering to settlement option
	optionID, _ := in.symbol.OptionID()

	// Step 4: payment correlation id
	now := s.clock.Now()
	suffix, err := randomSuffix()
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	attempt := &domain.SettlementAttempt{
		PaymentID:      domain.BuildPaymentID(in.wallet, now, suffix),
		WalletAddress:  in.wallet,
		TokenSymbol:    in.symbol,
		USDAmount:      req.USDAmount,
		TokenAmount:    token.TokensFor(req.USDAmount),
		TokenAmountWei: req.TokenAmountWei,
		PaymentTxHash:  req.PaymentTxHash,
		Referrer:       in.referrer,
		BonusAmount:    req.BonusAmount,
		Status:         domain.AttemptStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Step 5: reserve cap and supply atomically
	if err := s.reserve(ctx, attempt, token); err != nil {
		metrics.RecordPurchase(string(in.symbol), "rejected")
		return nil, err
	}

	// From here on the oracle may move funds; the request's cancellation
	// must not abandon the attempt halfway.
	bg := context.WithoutCancel(ctx)
	call := domain.PaymentCall{
		Buyer:     in.wallet,
		OptionID:  optionID,
		Amount:    req.TokenAmountWei,
		PaymentID: attempt.PaymentID,
	}

	// Step 6: dry run
	if err := s.simulate(bg, call); err != nil {
		s.release(bg, attempt, "dry-run: "+err.Error())
		if errors.Is(err, ports.ErrSettlementReverted) {
			metrics.RecordPurchase(string(in.symbol), "failed")
			return nil, apperror.ErrVerificationFailed(err.Error())
		}
		metrics.RecordPurchase(string(in.symbol), "unavailable")
		return nil, apperror.ErrSettlementUnavailable(err)
	}

	// Step 7: submit and await confirmation
	txHash, receipt, err := s.settle(bg, attempt, call)
	switch {
	case err != nil && errors.Is(err, ports.ErrSettlementReverted):
		s.release(bg, attempt, "submit: "+err.Error())
		metrics.RecordPurchase(string(in.symbol), "failed")
		return nil, apperror.ErrVerificationFailed(err.Error())
	case err != nil && (txHash == "" || errors.Is(err, ports.ErrSettlementRejected)):
		s.release(bg, attempt, "submit: "+err.Error())
		metrics.RecordPurchase(string(in.symbol), "unavailable")
		return nil, apperror.ErrSettlementUnavailable(err)
	case err != nil:
		return nil, s.indeterminate(bg, attempt, txHash, err)
	case receipt.Status == domain.ReceiptReverted:
		s.release(bg, attempt, "receipt reverted: "+txHash)
		metrics.RecordPurchase(string(in.symbol), "failed")
		return nil, apperror.ErrVerificationFailed("settlement transaction reverted")
	}

	// Step 8: commit purchase, attempt and referral together
	purchase, err := s.ledger.Commit(bg, attempt, txHash)
	if err != nil {
		// The payment is on chain; leave the attempt open for the reconciler.
		s.log.Error().Err(err).Str("payment_id", attempt.PaymentID).Str("tx_hash", txHash).Msg("commit after confirmed settlement failed")
		return nil, s.indeterminate(bg, attempt, txHash, err)
	}

	// Step 9: cache, audit, metrics (best-effort)
	s.cacheResult(bg, purchase)
	s.audit.Log(bg, &domain.AuditLog{
		WalletAddress: &purchase.WalletAddress,
		Action:        domain.AuditActionPurchase,
		ResourceType:  "purchase",
		ResourceID:    purchase.ID.String(),
		Details:       fmt.Sprintf(`{"token":%q,"usd":%q,"tokens":%q,"payment_id":%q}`, purchase.TokenSymbol, purchase.Amount.String(), purchase.TokenAmount.String(), purchase.PaymentID),
		IPAddress:     req.ClientIP,
		CreatedAt:     purchase.PurchaseDate,
	})
	metrics.RecordPurchase(string(in.symbol), "committed")
	metrics.RecordTokensSold(string(in.symbol), purchase.TokenAmount.InexactFloat64())

	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("wallet", purchase.WalletAddress).
		Str("token", string(purchase.TokenSymbol)).
		Str("tokens", purchase.TokenAmount.String()).
		Str("tx_hash", txHash).
		Msg("purchase committed")

	return &ports.PurchaseResult{Purchase: purchase}, nil
}

type validPurchase struct {
	wallet   string
	symbol   domain.TokenSymbol
	referrer *string
}

func (s *PurchaseServiceImpl) validate(req ports.PurchaseRequest) (*validPurchase, error) {
	if !domain.IsValidAddress(req.WalletAddress) {
		return nil, apperror.Validation("walletAddress must be a 0x-prefixed 20-byte hex address")
	}
	symbol, ok := domain.ParseTokenSymbol(req.TokenSymbol)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown tokenSymbol %q", req.TokenSymbol))
	}
	if !req.USDAmount.IsPositive() {
		return nil, apperror.Validation("usdAmount must be positive")
	}
	if req.TokenAmountWei == nil || req.TokenAmountWei.Sign() <= 0 {
		return nil, apperror.Validation("tokenAmountWei must be a positive integer")
	}
	if !domain.IsValidTxHash(req.PaymentTxHash) {
		return nil, apperror.Validation("paymentTxHash must be a 0x-prefixed 32-byte hex hash")
	}

	out := &validPurchase{wallet: domain.NormalizeAddress(req.WalletAddress), symbol: symbol}

	if req.Referrer != nil && *req.Referrer != "" {
		if !domain.IsValidAddress(*req.Referrer) {
			return nil, apperror.Validation("referrer must be a 0x-prefixed 20-byte hex address")
		}
		ref := domain.NormalizeAddress(*req.Referrer)
		if ref == out.wallet {
			return nil, apperror.ErrSelfReferral()
		}
		out.referrer = &ref
	}
	if req.BonusAmount != nil {
		if req.BonusAmount.IsNegative() {
			return nil, apperror.Validation("bonusAmount must not be negative")
		}
		if out.referrer == nil {
			return nil, apperror.Validation("bonusAmount requires a referrer")
		}
	}
	return out, nil
}

// replay returns the committed purchase for paymentTxHash, checking the
// cache first and the ledger second.
func (s *PurchaseServiceImpl) replay(ctx context.Context, wallet, paymentTxHash string) (*ports.PurchaseResult, error) {
	key := replayCachePrefix + paymentTxHash

	// Layer 1: Redis replay check
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("replay cache check failed, falling through to DB")
	}
	if cached != nil {
		var p domain.Purchase
		if err := json.Unmarshal(cached, &p); err == nil {
			return replayFor(&p, wallet)
		}
		s.log.Warn().Str("key", key).Msg("discarding unreadable replay cache entry")
	}

	// Layer 2: ledger check
	existing, err := s.purchaseRepo.GetByPaymentTxHash(ctx, paymentTxHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("replay lookup: %w", err))
	}
	if existing == nil {
		return nil, nil
	}
	return replayFor(existing, wallet)
}

func replayFor(p *domain.Purchase, wallet string) (*ports.PurchaseResult, error) {
	if p.WalletAddress != wallet {
		return nil, apperror.ErrDuplicatePayment()
	}
	return &ports.PurchaseResult{Purchase: p, Replayed: true}, nil
}

// reserve inserts the PENDING attempt under the wallet lock, after the cap
// and supply checks pass.
func (s *PurchaseServiceImpl) reserve(ctx context.Context, attempt *domain.SettlementAttempt, token *domain.TokenConfig) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.attemptRepo.LockWallet(ctx, dbTx, attempt.WalletAddress); err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}

	active, err := s.attemptRepo.GetActiveByPaymentTxHash(ctx, dbTx, attempt.PaymentTxHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("payment lookup: %w", err))
	}
	if active != nil {
		return apperror.ErrDuplicatePayment()
	}

	if limit, capped := s.guard.CapFor(attempt.TokenSymbol, token); capped {
		check, err := s.guard.CheckReserved(ctx, dbTx, attempt.WalletAddress, attempt.TokenSymbol, limit, attempt.TokenAmount)
		if err != nil {
			return apperror.InternalError(err)
		}
		if !check.Allowed {
			return apperror.ErrPurchaseLimitExceeded(check.CurrentBalance.String(), check.Cap.String()).
				WithDetail("requested", attempt.TokenAmount.String()).
				WithDetail("remainingAllowance", check.RemainingAllowance.String())
		}
	}

	ok, err := s.tokenRepo.ReserveSupply(ctx, dbTx, attempt.TokenSymbol, attempt.TokenAmount)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("reserve supply: %w", err))
	}
	if !ok {
		return apperror.ErrSoldOut(string(attempt.TokenSymbol))
	}

	if err := s.attemptRepo.Create(ctx, dbTx, attempt); err != nil {
		return apperror.InternalError(fmt.Errorf("create attempt: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *PurchaseServiceImpl) simulate(ctx context.Context, call domain.PaymentCall) error {
	octx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.oracle.Simulate(octx, call)
	metrics.RecordOracleCall("simulate", oracleStatus(err), time.Since(start).Seconds())
	return err
}

// settle submits the payment and waits for its receipt under one timeout.
func (s *PurchaseServiceImpl) settle(ctx context.Context, attempt *domain.SettlementAttempt, call domain.PaymentCall) (string, *domain.Receipt, error) {
	octx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	txHash, err := s.oracle.SubmitPayment(octx, call)
	metrics.RecordOracleCall("submit", oracleStatus(err), time.Since(start).Seconds())
	if err != nil {
		return txHash, nil, err
	}

	if _, err := s.ledger.Transition(ctx, attempt,
		[]domain.AttemptStatus{domain.AttemptStatusPending}, domain.AttemptStatusSubmitted, &txHash); err != nil {
		s.log.Warn().Err(err).Str("payment_id", call.PaymentID).Msg("failed to record submitted settlement")
	}

	start = time.Now()
	receipt, err := s.oracle.WaitForReceipt(octx, txHash)
	metrics.RecordOracleCall("wait_receipt", oracleStatus(err), time.Since(start).Seconds())
	if err != nil {
		return txHash, nil, err
	}
	return txHash, receipt, nil
}

// indeterminate parks the attempt for the reconciler and tells the caller
// the outcome is unknown.
func (s *PurchaseServiceImpl) indeterminate(ctx context.Context, attempt *domain.SettlementAttempt, txHash string, cause error) error {
	var hash *string
	if txHash != "" {
		hash = &txHash
	}
	if _, err := s.ledger.Transition(ctx, attempt,
		[]domain.AttemptStatus{domain.AttemptStatusPending, domain.AttemptStatusSubmitted},
		domain.AttemptStatusIndeterminate, hash); err != nil {
		s.log.Error().Err(err).Str("payment_id", attempt.PaymentID).Msg("failed to mark settlement indeterminate")
	}

	s.log.Error().Err(cause).
		Str("payment_id", attempt.PaymentID).
		Str("wallet", attempt.WalletAddress).
		Str("tx_hash", txHash).
		Msg("settlement outcome unknown")
	s.alerts.Notify(ctx, domain.Alert{
		Event:         domain.AlertSettlementIndeterminate,
		Reference:     attempt.PaymentID,
		WalletAddress: attempt.WalletAddress,
		Message:       "settlement outcome unknown, pending reconciliation",
		Details:       map[string]any{"tx_hash": txHash, "error": cause.Error()},
		OccurredAt:    s.clock.Now(),
	})
	metrics.RecordPurchase(string(attempt.TokenSymbol), "indeterminate")
	return apperror.ErrIndeterminate(attempt.PaymentID)
}

func (s *PurchaseServiceImpl) release(ctx context.Context, attempt *domain.SettlementAttempt, reason string) {
	if _, err := s.ledger.Release(ctx, attempt, reason); err != nil {
		s.log.Error().Err(err).Str("payment_id", attempt.PaymentID).Msg("failed to release reservation")
	}
}

func (s *PurchaseServiceImpl) cacheResult(ctx context.Context, p *domain.Purchase) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, replayCachePrefix+p.PaymentTxHash, data, replayCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("payment_tx_hash", p.PaymentTxHash).Msg("failed to cache purchase")
	}
}

func (s *PurchaseServiceImpl) configMissing(ctx context.Context, symbol domain.TokenSymbol) {
	s.log.Error().Str("token", string(symbol)).Msg("token configuration missing")
	s.alerts.Notify(ctx, domain.Alert{
		Event:      domain.AlertConfigMissing,
		Reference:  string(symbol),
		Message:    "token configuration missing",
		OccurredAt: s.clock.Now(),
	})
}

// isDefiniteFailure reports whether err proves the settlement did not happen.
func isDefiniteFailure(err error) bool {
	return errors.Is(err, ports.ErrSettlementReverted) || errors.Is(err, ports.ErrSettlementRejected)
}

func oracleStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isDefiniteFailure(err):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func randomSuffix() (string, error) {
	b := make([]byte, paymentIDSuffixLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating payment id suffix: %w", err)
	}
	return hex.EncodeToString(b), nil
}
