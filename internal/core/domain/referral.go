package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxRecentReferralPurchases bounds the recent purchases returned with earnings.
const MaxRecentReferralPurchases = 10

// ReferralPurchase is one referred purchase credited to a referrer.
type ReferralPurchase struct {
	Amount    decimal.Decimal `json:"amount"`
	Bonus     decimal.Decimal `json:"bonus"`
	Timestamp time.Time       `json:"timestamp"`
}

// ReferralLink binds a referred wallet to its referrer. The pair is unique.
type ReferralLink struct {
	ID          uuid.UUID          `json:"id"`
	Referrer    string             `json:"referrer"`
	Referred    string             `json:"referred"`
	BonusAmount decimal.Decimal    `json:"bonus_amount"`
	Purchases   []ReferralPurchase `json:"purchases"`
	Timestamp   time.Time          `json:"timestamp"`
}

// AddPurchase appends a referred purchase and accrues its bonus.
func (l *ReferralLink) AddPurchase(p ReferralPurchase) {
	l.Purchases = append(l.Purchases, p)
	l.BonusAmount = l.BonusAmount.Add(p.Bonus)
}

// ReferralEarnings aggregates all links of one referrer.
type ReferralEarnings struct {
	TotalBonus      decimal.Decimal    `json:"total_bonus"`
	RecentPurchases []ReferralPurchase `json:"recent_purchases"`
	ReferralCount   int                `json:"referral_count"`
}
