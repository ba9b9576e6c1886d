package service

import (
	"context"
	"fmt"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

const maxTokenDecimals = 36

// TokenAdminServiceImpl implements ports.TokenAdminService.
type TokenAdminServiceImpl struct {
	tokenRepo    ports.TokenConfigRepository
	hashSvc      ports.HashService
	adminKeyHash string
	audit        ports.AuditService
	clock        ports.Clock
	log          zerolog.Logger
}

// NewTokenAdminService creates a new TokenAdminServiceImpl. An empty
// adminKeyHash disables the admin routes.
func NewTokenAdminService(
	tokenRepo ports.TokenConfigRepository,
	hashSvc ports.HashService,
	adminKeyHash string,
	audit ports.AuditService,
	clock ports.Clock,
	log zerolog.Logger,
) *TokenAdminServiceImpl {
	return &TokenAdminServiceImpl{
		tokenRepo:    tokenRepo,
		hashSvc:      hashSvc,
		adminKeyHash: adminKeyHash,
		audit:        audit,
		clock:        clock,
		log:          log,
	}
}

// List returns every token configuration.
func (s *TokenAdminServiceImpl) List(ctx context.Context) ([]domain.TokenConfig, error) {
	tokens, err := s.tokenRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list token configs: %w", err))
	}
	return tokens, nil
}

// Upsert validates and stores a token configuration. Sold supply is owned
// by the purchase path and is never overwritten.
func (s *TokenAdminServiceImpl) Upsert(ctx context.Context, cfg *domain.TokenConfig) error {
	if err := ValidateTokenConfig(cfg); err != nil {
		return err
	}
	cfg.ContractAddress = domain.NormalizeAddress(cfg.ContractAddress)
	if cfg.Decimals == 0 {
		cfg.Decimals = domain.DefaultTokenDecimals
	}
	cfg.UpdatedAt = s.clock.Now()

	if err := s.tokenRepo.Upsert(ctx, cfg); err != nil {
		return apperror.InternalError(fmt.Errorf("upsert token config: %w", err))
	}

	s.audit.Log(ctx, &domain.AuditLog{
		Action:       domain.AuditActionTokenUpsert,
		ResourceType: "token_config",
		ResourceID:   string(cfg.Symbol),
		Details:      fmt.Sprintf(`{"unit_price":%q,"total_supply":%q,"vesting_period_days":%d}`, cfg.UnitPrice.String(), cfg.TotalSupply.String(), cfg.VestingPeriodDays),
		CreatedAt:    cfg.UpdatedAt,
	})
	s.log.Info().Str("token", string(cfg.Symbol)).Msg("token configuration updated")
	return nil
}

// VerifyAdminKey checks key against the configured Argon2id hash.
func (s *TokenAdminServiceImpl) VerifyAdminKey(key string) bool {
	if s.adminKeyHash == "" || key == "" {
		return false
	}
	ok, err := s.hashSvc.Verify(key, s.adminKeyHash)
	if err != nil {
		s.log.Error().Err(err).Msg("admin key hash unreadable")
		return false
	}
	return ok
}

// ValidateTokenConfig checks a token configuration before it is stored.
func ValidateTokenConfig(cfg *domain.TokenConfig) error {
	if cfg == nil {
		return apperror.Validation("token configuration is required")
	}
	if _, ok := cfg.Symbol.OptionID(); !ok {
		return apperror.Validation(fmt.Sprintf("unknown tokenSymbol %q", cfg.Symbol))
	}
	if !domain.IsValidAddress(cfg.ContractAddress) {
		return apperror.Validation("contractAddress must be a 0x-prefixed 20-byte hex address")
	}
	if !cfg.UnitPrice.IsPositive() {
		return apperror.Validation("unitPrice must be positive")
	}
	if !cfg.TotalSupply.IsPositive() {
		return apperror.Validation("totalSupply must be positive")
	}
	if cfg.MaxPerWallet != nil && !cfg.MaxPerWallet.IsPositive() {
		return apperror.Validation("maxPerWallet must be positive")
	}
	if cfg.VestingPeriodDays < 0 {
		return apperror.Validation("vestingPeriodDays must not be negative")
	}
	if cfg.Decimals < 0 || cfg.Decimals > maxTokenDecimals {
		return apperror.Validation(fmt.Sprintf("decimals must be between 0 and %d", maxTokenDecimals))
	}
	return nil
}
