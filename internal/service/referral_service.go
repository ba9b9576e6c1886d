package service

import (
	"context"
	"fmt"
	"sort"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReferralServiceImpl implements ports.ReferralService.
type ReferralServiceImpl struct {
	referralRepo ports.ReferralRepository
	audit        ports.AuditService
	clock        ports.Clock
	log          zerolog.Logger
}

// NewReferralService creates a new ReferralServiceImpl.
func NewReferralService(referralRepo ports.ReferralRepository, audit ports.AuditService, clock ports.Clock, log zerolog.Logger) *ReferralServiceImpl {
	return &ReferralServiceImpl{
		referralRepo: referralRepo,
		audit:        audit,
		clock:        clock,
		log:          log,
	}
}

// RecordReferral links referred to referrer. Recording the same pair again
// returns the existing link unchanged.
func (s *ReferralServiceImpl) RecordReferral(ctx context.Context, referrer, referred string) (*domain.ReferralLink, error) {
	if !domain.IsValidAddress(referrer) {
		return nil, apperror.Validation("referrer must be a 0x-prefixed 20-byte hex address")
	}
	if !domain.IsValidAddress(referred) {
		return nil, apperror.Validation("referred must be a 0x-prefixed 20-byte hex address")
	}
	referrer = domain.NormalizeAddress(referrer)
	referred = domain.NormalizeAddress(referred)
	if referrer == referred {
		return nil, apperror.ErrSelfReferral()
	}

	link, created, err := s.referralRepo.CreateIfAbsent(ctx, nil, &domain.ReferralLink{
		ID:          uuid.New(),
		Referrer:    referrer,
		Referred:    referred,
		BonusAmount: decimal.Zero,
		Purchases:   []domain.ReferralPurchase{},
		Timestamp:   s.clock.Now(),
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record referral: %w", err))
	}

	if created {
		s.audit.Log(ctx, &domain.AuditLog{
			WalletAddress: &referred,
			Action:        domain.AuditActionReferral,
			ResourceType:  "referral",
			ResourceID:    link.ID.String(),
			Details:       fmt.Sprintf(`{"referrer":%q}`, referrer),
			CreatedAt:     link.Timestamp,
		})
		s.log.Info().Str("referrer", referrer).Str("referred", referred).Msg("referral recorded")
	}
	return link, nil
}

// Earnings sums a referrer's bonuses and returns its newest referred purchases.
func (s *ReferralServiceImpl) Earnings(ctx context.Context, referrer string) (*domain.ReferralEarnings, error) {
	if !domain.IsValidAddress(referrer) {
		return nil, apperror.Validation("referrer must be a 0x-prefixed 20-byte hex address")
	}

	links, err := s.referralRepo.ListByReferrer(ctx, domain.NormalizeAddress(referrer))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list referrals: %w", err))
	}

	out := &domain.ReferralEarnings{
		TotalBonus:      decimal.Zero,
		RecentPurchases: []domain.ReferralPurchase{},
		ReferralCount:   len(links),
	}
	for _, l := range links {
		out.TotalBonus = out.TotalBonus.Add(l.BonusAmount)
		out.RecentPurchases = append(out.RecentPurchases, l.Purchases...)
	}

	sort.SliceStable(out.RecentPurchases, func(i, j int) bool {
		return out.RecentPurchases[i].Timestamp.After(out.RecentPurchases[j].Timestamp)
	})
	if len(out.RecentPurchases) > domain.MaxRecentReferralPurchases {
		out.RecentPurchases = out.RecentPurchases[:domain.MaxRecentReferralPurchases]
	}
	return out, nil
}
