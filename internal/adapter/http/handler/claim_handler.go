package handler

import (
	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"
	"presale-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClaimHandler handles token claim endpoints.
type ClaimHandler struct {
	claimSvc ports.ClaimService
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(claimSvc ports.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimSvc: claimSvc}
}

// Claim handles POST /api/v1/purchases/:id/claim.
func (h *ClaimHandler) Claim(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("purchase id must be a UUID"))
		return
	}

	result, err := h.claimSvc.Claim(c.Request.Context(), id, wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ClaimResponse{
		PurchaseID:     result.Purchase.ID.String(),
		TransferTxHash: result.TransferTxHash,
		BaseUnits:      result.BaseUnits.String(),
	}
	if result.Purchase.ClaimDate != nil {
		resp.ClaimDate = formatTime(*result.Purchase.ClaimDate)
	}
	response.OK(c, resp)
}

// ClaimStatus handles GET /api/v1/purchases/:id/claim-status. Purchases of
// other wallets are reported as not found.
func (h *ClaimHandler) ClaimStatus(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("purchase id must be a UUID"))
		return
	}

	view, err := h.claimSvc.ClaimStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !view.Purchase.OwnedBy(wallet) {
		response.Error(c, apperror.ErrNotFound("Purchase"))
		return
	}

	p := view.Purchase
	resp := dto.ClaimStatusResponse{
		PurchaseID:     p.ID.String(),
		Claimed:        p.Claimed,
		ClaimStatus:    string(p.ClaimStatus),
		TransferTxHash: p.TransferTxHash,
		Vesting:        toVestingResponse(view.Vesting),
	}
	if p.ClaimDate != nil {
		s := formatTime(*p.ClaimDate)
		resp.ClaimDate = &s
	}
	response.OK(c, resp)
}
