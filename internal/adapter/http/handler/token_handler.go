package handler

import (
	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"
	"presale-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TokenHandler handles token sale configuration endpoints.
type TokenHandler struct {
	adminSvc ports.TokenAdminService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(adminSvc ports.TokenAdminService) *TokenHandler {
	return &TokenHandler{adminSvc: adminSvc}
}

// List handles GET /api/v1/tokens.
func (h *TokenHandler) List(c *gin.Context) {
	tokens, err := h.adminSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TokenConfigResponse, 0, len(tokens))
	for i := range tokens {
		items = append(items, toTokenConfigResponse(&tokens[i]))
	}
	response.OK(c, items)
}

// Upsert handles PUT /api/v1/admin/tokens/:symbol.
func (h *TokenHandler) Upsert(c *gin.Context) {
	symbol, ok := domain.ParseTokenSymbol(c.Param("symbol"))
	if !ok {
		response.Error(c, apperror.Validation("unknown token symbol"))
		return
	}

	var req dto.TokenConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	cfg := &domain.TokenConfig{
		Symbol:            symbol,
		ContractAddress:   req.ContractAddress,
		VestingPeriodDays: req.VestingPeriodDays,
		Decimals:          req.Decimals,
	}
	var err error
	if cfg.UnitPrice, err = decimal.NewFromString(req.UnitPrice); err != nil {
		response.Error(c, apperror.Validation("unit_price must be a decimal number"))
		return
	}
	if cfg.TotalSupply, err = decimal.NewFromString(req.TotalSupply); err != nil {
		response.Error(c, apperror.Validation("total_supply must be a decimal number"))
		return
	}
	if req.MaxPerWallet != nil {
		m, err := decimal.NewFromString(*req.MaxPerWallet)
		if err != nil {
			response.Error(c, apperror.Validation("max_per_wallet must be a decimal number"))
			return
		}
		cfg.MaxPerWallet = &m
	}

	if err := h.adminSvc.Upsert(c.Request.Context(), cfg); err != nil {
		response.Error(c, err)
		return
	}

	// Sold supply is not part of the request; report the stored value.
	tokens, err := h.adminSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	for i := range tokens {
		if tokens[i].Symbol == symbol {
			cfg = &tokens[i]
			break
		}
	}
	response.OK(c, toTokenConfigResponse(cfg))
}

func toTokenConfigResponse(t *domain.TokenConfig) dto.TokenConfigResponse {
	resp := dto.TokenConfigResponse{
		Symbol:            string(t.Symbol),
		ContractAddress:   t.ContractAddress,
		UnitPrice:         t.UnitPrice.String(),
		TotalSupply:       t.TotalSupply.String(),
		SoldAmount:        t.SoldAmount.String(),
		RemainingSupply:   t.Remaining().String(),
		VestingPeriodDays: t.VestingPeriodDays,
		Decimals:          t.Decimals,
	}
	if t.MaxPerWallet != nil {
		s := t.MaxPerWallet.String()
		resp.MaxPerWallet = &s
	}
	return resp
}
