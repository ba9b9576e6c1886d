package handler

import (
	"presale-backend/internal/adapter/http/middleware"
	"presale-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PurchaseSvc    ports.PurchaseService
	ClaimSvc       ports.ClaimService
	ReferralSvc    ports.ReferralService
	TokenAdminSvc  ports.TokenAdminService
	TokenSvc       ports.TokenService
	RateLimiter    ports.RateLimiter // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = denied-request auditing disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Denied writes are audited after the response
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditDenied(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Return the wallet limiter for a group if one is configured, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.WalletRateLimit(deps.RateLimiter, group, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/challenge", authHandler.Challenge)
		auth.POST("/login", authHandler.Login)
	}

	tokenHandler := NewTokenHandler(deps.TokenAdminSvc)
	v1.GET("/tokens", tokenHandler.List)

	// --- Admin routes (API key) ---
	admin := v1.Group("/admin", middleware.AdminKey(deps.TokenAdminSvc.VerifyAdminKey))
	{
		admin.PUT("/tokens/:symbol", tokenHandler.Upsert)
	}

	// --- JWT-authenticated routes (wallet session) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc, deps.ClaimSvc)
	claimHandler := NewClaimHandler(deps.ClaimSvc)
	referralHandler := NewReferralHandler(deps.ReferralSvc)

	purchases := v1.Group("/purchases", jwtAuth)
	{
		purchases.POST("", rl("purchase"), purchaseHandler.Purchase)
		purchases.GET("", purchaseHandler.List)
		purchases.GET("/limit", purchaseHandler.Limit)
		purchases.POST("/:id/claim", rl("claim"), claimHandler.Claim)
		purchases.GET("/:id/claim-status", claimHandler.ClaimStatus)
	}

	referrals := v1.Group("/referrals", jwtAuth)
	{
		referrals.POST("", referralHandler.Record)
		referrals.GET("/earnings", referralHandler.Earnings)
	}

	return r
}
