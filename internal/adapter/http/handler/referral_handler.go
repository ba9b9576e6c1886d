package handler

import (
	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"
	"presale-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReferralHandler handles referral endpoints.
type ReferralHandler struct {
	referralSvc ports.ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referralSvc ports.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// Record handles POST /api/v1/referrals: the caller is the referred wallet.
func (h *ReferralHandler) Record(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	link, err := h.referralSvc.RecordReferral(c.Request.Context(), req.Referrer, wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ReferralResponse{
		ID:          link.ID.String(),
		Referrer:    link.Referrer,
		Referred:    link.Referred,
		BonusAmount: link.BonusAmount.String(),
		Timestamp:   formatTime(link.Timestamp),
	})
}

// Earnings handles GET /api/v1/referrals/earnings for the calling referrer.
func (h *ReferralHandler) Earnings(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	earnings, err := h.referralSvc.Earnings(c.Request.Context(), wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	recent := make([]dto.ReferralPurchaseResponse, 0, len(earnings.RecentPurchases))
	for _, p := range earnings.RecentPurchases {
		recent = append(recent, dto.ReferralPurchaseResponse{
			Amount:    p.Amount.String(),
			Bonus:     p.Bonus.String(),
			Timestamp: formatTime(p.Timestamp),
		})
	}
	response.OK(c, dto.EarningsResponse{
		TotalBonus:      earnings.TotalBonus.String(),
		ReferralCount:   earnings.ReferralCount,
		RecentPurchases: recent,
	})
}
