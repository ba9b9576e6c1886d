package memory

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PurchaseRepo implements ports.PurchaseRepository on a Store.
type PurchaseRepo struct{ s *Store }

// TokenConfigRepo implements ports.TokenConfigRepository on a Store.
type TokenConfigRepo struct{ s *Store }

// ReferralRepo implements ports.ReferralRepository on a Store.
type ReferralRepo struct{ s *Store }

// SettlementAttemptRepo implements ports.SettlementAttemptRepository on a Store.
type SettlementAttemptRepo struct{ s *Store }

// AuditRepo implements ports.AuditRepository on a Store.
type AuditRepo struct{ s *Store }

func (s *Store) Purchases() *PurchaseRepo         { return &PurchaseRepo{s} }
func (s *Store) Tokens() *TokenConfigRepo         { return &TokenConfigRepo{s} }
func (s *Store) Referrals() *ReferralRepo         { return &ReferralRepo{s} }
func (s *Store) Attempts() *SettlementAttemptRepo { return &SettlementAttemptRepo{s} }
func (s *Store) Audit() *AuditRepo                { return &AuditRepo{s} }
func (s *Store) Transactor() ports.DBTransactor   { return s }
func (s *Store) HealthCheck() ports.HealthChecker { return s }

// --- purchases ---

func (r *PurchaseRepo) Create(_ context.Context, tx pgx.Tx, p *domain.Purchase) error {
	return r.s.do(tx, func(undo func(func())) error {
		for _, existing := range r.s.purchases {
			if existing.PaymentTxHash == p.PaymentTxHash || existing.PaymentID == p.PaymentID {
				return fmt.Errorf("insert purchase: duplicate payment %s", p.PaymentTxHash)
			}
		}
		stored := *p
		r.s.purchases[p.ID] = &stored
		undo(func() { delete(r.s.purchases, p.ID) })
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := r.s.do(nil, func(func(func())) error {
		if p, ok := r.s.purchases[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetByPaymentTxHash(_ context.Context, paymentTxHash string) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := r.s.do(nil, func(func(func())) error {
		for _, p := range r.s.purchases {
			if p.PaymentTxHash == paymentTxHash {
				cp := *p
				out = &cp
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) ListByWallet(_ context.Context, wallet string) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := r.s.do(nil, func(func(func())) error {
		for _, p := range r.s.purchases {
			if p.WalletAddress == wallet {
				out = append(out, *p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, err
}

func (r *PurchaseRepo) SumTokens(_ context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.do(tx, func(func(func())) error {
		for _, p := range r.s.purchases {
			if p.WalletAddress == wallet && p.TokenSymbol == symbol {
				total = total.Add(p.TokenAmount)
			}
		}
		return nil
	})
	return total, err
}

// transition applies mutate to purchase id if allowed reports true for it.
func (r *PurchaseRepo) transition(id uuid.UUID, allowed func(*domain.Purchase) bool, mutate func(*domain.Purchase)) (bool, error) {
	applied := false
	err := r.s.do(nil, func(func(func())) error {
		p, ok := r.s.purchases[id]
		if !ok || !allowed(p) {
			return nil
		}
		mutate(p)
		applied = true
		return nil
	})
	return applied, err
}

func inClaimStatus(statuses ...domain.ClaimStatus) func(*domain.Purchase) bool {
	return func(p *domain.Purchase) bool {
		if p.Claimed {
			return false
		}
		for _, s := range statuses {
			if p.ClaimStatus == s {
				return true
			}
		}
		return false
	}
}

func (r *PurchaseRepo) BeginClaim(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(id, inClaimStatus(domain.ClaimStatusUnclaimed), func(p *domain.Purchase) {
		p.ClaimStatus = domain.ClaimStatusProcessing
		p.UpdatedAt = at
	})
}

func (r *PurchaseRepo) RecordTransfer(_ context.Context, id uuid.UUID, transferTxHash string, at time.Time) (bool, error) {
	return r.transition(id, inClaimStatus(domain.ClaimStatusProcessing), func(p *domain.Purchase) {
		h := transferTxHash
		p.TransferTxHash = &h
		p.UpdatedAt = at
	})
}

func (r *PurchaseRepo) CompleteClaim(_ context.Context, id uuid.UUID, transferTxHash string, claimedAt time.Time) (bool, error) {
	return r.transition(id, inClaimStatus(domain.ClaimStatusProcessing, domain.ClaimStatusIndeterminate), func(p *domain.Purchase) {
		h, at := transferTxHash, claimedAt
		p.Claimed = true
		p.ClaimDate = &at
		p.ClaimStatus = domain.ClaimStatusClaimed
		p.TransferTxHash = &h
		p.UpdatedAt = claimedAt
	})
}

func (r *PurchaseRepo) ReleaseClaim(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(id, inClaimStatus(domain.ClaimStatusProcessing, domain.ClaimStatusIndeterminate), func(p *domain.Purchase) {
		p.ClaimStatus = domain.ClaimStatusUnclaimed
		p.TransferTxHash = nil
		p.UpdatedAt = at
	})
}

func (r *PurchaseRepo) MarkClaimIndeterminate(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(id, inClaimStatus(domain.ClaimStatusProcessing), func(p *domain.Purchase) {
		p.ClaimStatus = domain.ClaimStatusIndeterminate
		p.UpdatedAt = at
	})
}

func (r *PurchaseRepo) ListByClaimStatus(_ context.Context, status domain.ClaimStatus, updatedBefore time.Time, limit int) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := r.s.do(nil, func(func(func())) error {
		for _, p := range r.s.purchases {
			if p.ClaimStatus == status && p.UpdatedAt.Before(updatedBefore) {
				out = append(out, *p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// --- token configs ---

func (r *TokenConfigRepo) Upsert(_ context.Context, cfg *domain.TokenConfig) error {
	return r.s.do(nil, func(func(func())) error {
		stored := *cfg
		stored.SoldAmount = decimal.Zero
		if existing, ok := r.s.tokens[cfg.Symbol]; ok {
			stored.SoldAmount = existing.SoldAmount
		}
		r.s.tokens[cfg.Symbol] = &stored
		return nil
	})
}

func (r *TokenConfigRepo) GetBySymbol(_ context.Context, symbol domain.TokenSymbol) (*domain.TokenConfig, error) {
	var out *domain.TokenConfig
	err := r.s.do(nil, func(func(func())) error {
		if cfg, ok := r.s.tokens[symbol]; ok {
			cp := *cfg
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *TokenConfigRepo) List(_ context.Context) ([]domain.TokenConfig, error) {
	var out []domain.TokenConfig
	err := r.s.do(nil, func(func(func())) error {
		for _, cfg := range r.s.tokens {
			out = append(out, *cfg)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, err
}

func (r *TokenConfigRepo) ReserveSupply(_ context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) (bool, error) {
	reserved := false
	err := r.s.do(tx, func(undo func(func())) error {
		cfg, ok := r.s.tokens[symbol]
		if !ok || !cfg.CanSell(qty) {
			return nil
		}
		prev := cfg.SoldAmount
		cfg.SoldAmount = prev.Add(qty)
		undo(func() { cfg.SoldAmount = prev })
		reserved = true
		return nil
	})
	return reserved, err
}

func (r *TokenConfigRepo) ReleaseSupply(_ context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) error {
	return r.s.do(tx, func(undo func(func())) error {
		cfg, ok := r.s.tokens[symbol]
		if !ok {
			return nil
		}
		prev := cfg.SoldAmount
		next := prev.Sub(qty)
		if next.IsNegative() {
			next = decimal.Zero
		}
		cfg.SoldAmount = next
		undo(func() { cfg.SoldAmount = prev })
		return nil
	})
}

// --- referrals ---

func cloneLink(l *domain.ReferralLink) *domain.ReferralLink {
	cp := *l
	cp.Purchases = append([]domain.ReferralPurchase{}, l.Purchases...)
	return &cp
}

func (r *ReferralRepo) findPair(referrer, referred string) *domain.ReferralLink {
	for _, l := range r.s.links {
		if l.Referrer == referrer && l.Referred == referred {
			return l
		}
	}
	return nil
}

func (r *ReferralRepo) CreateIfAbsent(_ context.Context, tx pgx.Tx, link *domain.ReferralLink) (*domain.ReferralLink, bool, error) {
	var (
		out     *domain.ReferralLink
		created bool
	)
	err := r.s.do(tx, func(undo func(func())) error {
		if existing := r.findPair(link.Referrer, link.Referred); existing != nil {
			out = cloneLink(existing)
			return nil
		}
		stored := cloneLink(link)
		r.s.links[stored.ID] = stored
		undo(func() { delete(r.s.links, stored.ID) })
		out, created = cloneLink(stored), true
		return nil
	})
	return out, created, err
}

func (r *ReferralRepo) GetByPair(_ context.Context, referrer, referred string) (*domain.ReferralLink, error) {
	var out *domain.ReferralLink
	err := r.s.do(nil, func(func(func())) error {
		if l := r.findPair(referrer, referred); l != nil {
			out = cloneLink(l)
		}
		return nil
	})
	return out, err
}

func (r *ReferralRepo) AddPurchase(_ context.Context, tx pgx.Tx, linkID uuid.UUID, purchase domain.ReferralPurchase) error {
	return r.s.do(tx, func(undo func(func())) error {
		l, ok := r.s.links[linkID]
		if !ok {
			return fmt.Errorf("referral link %s not found", linkID)
		}
		prevBonus, prevLen := l.BonusAmount, len(l.Purchases)
		l.AddPurchase(purchase)
		undo(func() {
			l.BonusAmount = prevBonus
			l.Purchases = l.Purchases[:prevLen]
		})
		return nil
	})
}

func (r *ReferralRepo) ListByReferrer(_ context.Context, referrer string) ([]domain.ReferralLink, error) {
	var out []domain.ReferralLink
	err := r.s.do(nil, func(func(func())) error {
		for _, l := range r.s.links {
			if l.Referrer == referrer {
				out = append(out, *cloneLink(l))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, err
}

// --- settlement attempts ---

func (r *SettlementAttemptRepo) LockWallet(_ context.Context, tx pgx.Tx, _ string) error {
	if tx == nil {
		return fmt.Errorf("lock wallet: transaction required")
	}
	// The transaction already holds the store lock.
	return r.s.do(tx, func(func(func())) error { return nil })
}

func cloneAttempt(a *domain.SettlementAttempt) *domain.SettlementAttempt {
	cp := *a
	if a.TokenAmountWei != nil {
		cp.TokenAmountWei = new(big.Int).Set(a.TokenAmountWei)
	}
	return &cp
}

func (r *SettlementAttemptRepo) Create(_ context.Context, tx pgx.Tx, a *domain.SettlementAttempt) error {
	return r.s.do(tx, func(undo func(func())) error {
		if _, ok := r.s.attempts[a.PaymentID]; ok {
			return fmt.Errorf("insert settlement attempt: duplicate payment id %s", a.PaymentID)
		}
		for _, existing := range r.s.attempts {
			if existing.PaymentTxHash == a.PaymentTxHash && existing.Status != domain.AttemptStatusFailed {
				return fmt.Errorf("insert settlement attempt: payment %s already active", a.PaymentTxHash)
			}
		}
		r.s.attempts[a.PaymentID] = cloneAttempt(a)
		undo(func() { delete(r.s.attempts, a.PaymentID) })
		return nil
	})
}

func (r *SettlementAttemptRepo) Get(_ context.Context, paymentID string) (*domain.SettlementAttempt, error) {
	var out *domain.SettlementAttempt
	err := r.s.do(nil, func(func(func())) error {
		if a, ok := r.s.attempts[paymentID]; ok {
			out = cloneAttempt(a)
		}
		return nil
	})
	return out, err
}

func (r *SettlementAttemptRepo) GetActiveByPaymentTxHash(_ context.Context, tx pgx.Tx, paymentTxHash string) (*domain.SettlementAttempt, error) {
	var out *domain.SettlementAttempt
	err := r.s.do(tx, func(func(func())) error {
		for _, a := range r.s.attempts {
			if a.PaymentTxHash != paymentTxHash || a.Status == domain.AttemptStatusFailed {
				continue
			}
			if out == nil || a.CreatedAt.After(out.CreatedAt) {
				out = cloneAttempt(a)
			}
		}
		return nil
	})
	return out, err
}

func (r *SettlementAttemptRepo) SumReserved(_ context.Context, tx pgx.Tx, wallet string, symbol domain.TokenSymbol) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.do(tx, func(func(func())) error {
		for _, a := range r.s.attempts {
			if a.WalletAddress == wallet && a.TokenSymbol == symbol && a.HoldsReservation() {
				total = total.Add(a.TokenAmount)
			}
		}
		return nil
	})
	return total, err
}

func (r *SettlementAttemptRepo) UpdateStatus(_ context.Context, tx pgx.Tx, paymentID string, from []domain.AttemptStatus, update ports.AttemptUpdate) (bool, error) {
	applied := false
	err := r.s.do(tx, func(undo func(func())) error {
		a, ok := r.s.attempts[paymentID]
		if !ok || !containsStatus(from, a.Status) {
			return nil
		}
		prev := *a
		a.Status = update.Status
		if update.SettlementTxHash != nil {
			h := *update.SettlementTxHash
			a.SettlementTxHash = &h
		}
		if update.FailureReason != nil {
			reason := *update.FailureReason
			a.FailureReason = &reason
		}
		a.UpdatedAt = update.At
		undo(func() { *a = prev })
		applied = true
		return nil
	})
	return applied, err
}

func (r *SettlementAttemptRepo) ListByStatus(_ context.Context, statuses []domain.AttemptStatus, updatedBefore time.Time, limit int) ([]domain.SettlementAttempt, error) {
	var out []domain.SettlementAttempt
	err := r.s.do(nil, func(func(func())) error {
		for _, a := range r.s.attempts {
			if containsStatus(statuses, a.Status) && a.UpdatedAt.Before(updatedBefore) {
				out = append(out, *cloneAttempt(a))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func containsStatus(statuses []domain.AttemptStatus, s domain.AttemptStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// --- audit ---

func (r *AuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	return r.s.do(nil, func(func(func())) error {
		r.s.audit = append(r.s.audit, *entry)
		return nil
	})
}

// Entries returns a copy of the audit trail.
func (r *AuditRepo) Entries() []domain.AuditLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.AuditLog(nil), r.s.audit...)
}
