package handler

import (
	"math/big"
	"strings"
	"time"

	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"
	"presale-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PurchaseHandler handles purchase endpoints.
type PurchaseHandler struct {
	purchaseSvc ports.PurchaseService
	claimSvc    ports.ClaimService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseSvc ports.PurchaseService, claimSvc ports.ClaimService) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc, claimSvc: claimSvc}
}

// Purchase handles POST /api/v1/purchases. A replayed payment answers 200
// with the committed purchase; a new one answers 201.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("amount must be a decimal number"))
		return
	}
	wei, ok := new(big.Int).SetString(req.TokenAmountWei, 10)
	if !ok {
		response.Error(c, apperror.Validation("token_amount_wei must be an integer"))
		return
	}
	var bonus *decimal.Decimal
	if req.BonusAmount != nil {
		b, err := decimal.NewFromString(*req.BonusAmount)
		if err != nil {
			response.Error(c, apperror.Validation("bonus_amount must be a decimal number"))
			return
		}
		bonus = &b
	}

	result, err := h.purchaseSvc.Purchase(c.Request.Context(), ports.PurchaseRequest{
		WalletAddress:  wallet,
		TokenSymbol:    req.TokenSymbol,
		USDAmount:      amount,
		TokenAmountWei: wei,
		PaymentTxHash:  strings.ToLower(req.PaymentTxHash),
		Referrer:       req.Referrer,
		BonusAmount:    bonus,
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := toPurchaseResponse(result.Purchase)
	resp.Replayed = result.Replayed
	if result.Replayed {
		response.OK(c, resp)
		return
	}
	response.Created(c, resp)
}

// List handles GET /api/v1/purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	views, err := h.claimSvc.ListPurchases(c.Request.Context(), wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PurchaseWithVesting, 0, len(views))
	for i := range views {
		item := dto.PurchaseWithVesting{PurchaseResponse: toPurchaseResponse(&views[i].Purchase)}
		if !views[i].Vesting.VestingEnd.IsZero() {
			v := toVestingResponse(views[i].Vesting)
			item.Vesting = &v
		}
		items = append(items, item)
	}
	response.OK(c, items)
}

// Limit handles GET /api/v1/purchases/limit?token_amount=.
func (h *PurchaseHandler) Limit(c *gin.Context) {
	wallet, ok := walletFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	proposed := decimal.Zero
	if raw := strings.TrimSpace(c.Query("token_amount")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			response.Error(c, apperror.Validation("token_amount must be a decimal number"))
			return
		}
		proposed = d
	}

	check, err := h.purchaseSvc.CheckPurchaseLimit(c.Request.Context(), wallet, proposed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LimitResponse{
		Allowed:            check.Allowed,
		CurrentBalance:     check.CurrentBalance.String(),
		RemainingAllowance: check.RemainingAllowance.String(),
		Cap:                check.Cap.String(),
	})
}

// toPurchaseResponse converts domain.Purchase to DTO.
func toPurchaseResponse(p *domain.Purchase) dto.PurchaseResponse {
	resp := dto.PurchaseResponse{
		ID:               p.ID.String(),
		WalletAddress:    p.WalletAddress,
		TokenSymbol:      string(p.TokenSymbol),
		Amount:           p.Amount.String(),
		TokenAmount:      p.TokenAmount.String(),
		PaymentTxHash:    p.PaymentTxHash,
		PaymentID:        p.PaymentID,
		SettlementTxHash: p.SettlementTxHash,
		TransferTxHash:   p.TransferTxHash,
		PurchaseDate:     formatTime(p.PurchaseDate),
		Claimed:          p.Claimed,
		ClaimStatus:      string(p.ClaimStatus),
		Referrer:         p.Referrer,
	}
	if p.ClaimDate != nil {
		s := formatTime(*p.ClaimDate)
		resp.ClaimDate = &s
	}
	return resp
}

func toVestingResponse(v domain.VestingStatus) dto.VestingResponse {
	return dto.VestingResponse{
		VestingEndDate: formatTime(v.VestingEnd),
		RemainingDays:  v.RemainingDays,
		Claimable:      v.Claimable,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
