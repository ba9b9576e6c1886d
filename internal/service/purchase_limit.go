package service

import (
	"context"
	"fmt"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DefaultWalletCap is the per-wallet token cap of the capped offering.
var DefaultWalletCap = decimal.NewFromInt(200)

// PurchaseLimitGuard computes a wallet's entitlement against its cap.
type PurchaseLimitGuard struct {
	purchaseRepo ports.PurchaseRepository
	attemptRepo  ports.SettlementAttemptRepository
	cappedSymbol domain.TokenSymbol
	walletCap    decimal.Decimal
}

// NewPurchaseLimitGuard creates a guard for the capped offering.
func NewPurchaseLimitGuard(
	purchaseRepo ports.PurchaseRepository,
	attemptRepo ports.SettlementAttemptRepository,
	cappedSymbol domain.TokenSymbol,
	walletCap decimal.Decimal,
) *PurchaseLimitGuard {
	return &PurchaseLimitGuard{
		purchaseRepo: purchaseRepo,
		attemptRepo:  attemptRepo,
		cappedSymbol: cappedSymbol,
		walletCap:    walletCap,
	}
}

// CappedSymbol returns the offering the default cap applies to.
func (g *PurchaseLimitGuard) CappedSymbol() domain.TokenSymbol {
	return g.cappedSymbol
}

// CapFor returns the per-wallet cap of an offering. A MaxPerWallet on the
// token config wins; otherwise only the capped offering has a cap.
func (g *PurchaseLimitGuard) CapFor(symbol domain.TokenSymbol, token *domain.TokenConfig) (decimal.Decimal, bool) {
	if token != nil && token.MaxPerWallet != nil {
		return *token.MaxPerWallet, true
	}
	if symbol == g.cappedSymbol {
		return g.walletCap, true
	}
	return decimal.Zero, false
}

// Check is the advisory read: committed purchases only.
func (g *PurchaseLimitGuard) Check(ctx context.Context, wallet string, symbol domain.TokenSymbol, limit, proposed decimal.Decimal) (*ports.LimitCheck, error) {
	current, err := g.purchaseRepo.SumTokens(ctx, nil, wallet, symbol)
	if err != nil {
		return nil, fmt.Errorf("summing purchases: %w", err)
	}
	check := EvaluateLimit(current, proposed, limit)
	return &check, nil
}

// CheckReserved counts committed purchases plus open reservations. It must
// run inside tx after the wallet lock is held.
func (g *PurchaseLimitGuard) CheckReserved(ctx context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol, limit, proposed decimal.Decimal) (*ports.LimitCheck, error) {
	committed, err := g.purchaseRepo.SumTokens(ctx, tx, wallet, symbol)
	if err != nil {
		return nil, fmt.Errorf("summing purchases: %w", err)
	}
	reserved, err := g.attemptRepo.SumReserved(ctx, tx, wallet, symbol)
	if err != nil {
		return nil, fmt.Errorf("summing reservations: %w", err)
	}
	check := EvaluateLimit(committed.Add(reserved), proposed, limit)
	return &check, nil
}

// EvaluateLimit applies current + proposed <= limit.
func EvaluateLimit(current, proposed, limit decimal.Decimal) ports.LimitCheck {
	remaining := limit.Sub(current)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return ports.LimitCheck{
		Allowed:            current.Add(proposed).LessThanOrEqual(limit),
		CurrentBalance:     current,
		RemainingAllowance: remaining,
		Cap:                limit,
	}
}
