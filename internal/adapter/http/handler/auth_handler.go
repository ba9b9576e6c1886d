package handler

import (
	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/adapter/http/middleware"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"
	"presale-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles wallet authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Challenge handles POST /api/v1/auth/challenge.
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req dto.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	message, expiry, err := h.authSvc.Challenge(c.Request.Context(), req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ChallengeResponse{
		Message: message,
		Expiry:  expiry.Unix(),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, err := h.authSvc.Login(c.Request.Context(), req.Address, req.Signature, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// walletFrom returns the wallet the session token was issued to.
func walletFrom(c *gin.Context) (string, bool) {
	w := c.GetString(middleware.CtxWallet)
	return w, w != ""
}
