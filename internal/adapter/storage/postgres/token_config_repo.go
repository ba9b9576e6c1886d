package postgres

import (
	"context"
	"errors"
	"fmt"

	"presale-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const tokenConfigColumns = `symbol, contract_address, unit_price, total_supply, sold_amount,
		max_per_wallet, vesting_period_days, decimals, updated_at`

// TokenConfigRepo implements ports.TokenConfigRepository using PostgreSQL.
type TokenConfigRepo struct {
	pool Pool
}

// NewTokenConfigRepo creates a new TokenConfigRepo.
func NewTokenConfigRepo(pool Pool) *TokenConfigRepo {
	return &TokenConfigRepo{pool: pool}
}

// Upsert creates or updates a config. sold_amount is only ever written by
// ReserveSupply and ReleaseSupply.
func (r *TokenConfigRepo) Upsert(ctx context.Context, cfg *domain.TokenConfig) error {
	query := `INSERT INTO token_configs (symbol, contract_address, unit_price, total_supply,
			max_per_wallet, vesting_period_days, decimals, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol) DO UPDATE SET
			contract_address = EXCLUDED.contract_address,
			unit_price = EXCLUDED.unit_price,
			total_supply = EXCLUDED.total_supply,
			max_per_wallet = EXCLUDED.max_per_wallet,
			vesting_period_days = EXCLUDED.vesting_period_days,
			decimals = EXCLUDED.decimals,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		string(cfg.Symbol), cfg.ContractAddress, cfg.UnitPrice, cfg.TotalSupply,
		cfg.MaxPerWallet, cfg.VestingPeriodDays, cfg.Decimals, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert token config: %w", err)
	}
	return nil
}

// GetBySymbol retrieves one offering's config.
func (r *TokenConfigRepo) GetBySymbol(ctx context.Context, symbol domain.TokenSymbol) (*domain.TokenConfig, error) {
	query := `SELECT ` + tokenConfigColumns + ` FROM token_configs WHERE symbol = $1`
	return scanTokenConfig(r.pool.QueryRow(ctx, query, string(symbol)))
}

// List returns all configs ordered by symbol.
func (r *TokenConfigRepo) List(ctx context.Context) ([]domain.TokenConfig, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tokenConfigColumns+` FROM token_configs ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list token configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.TokenConfig
	for rows.Next() {
		cfg, err := scanTokenConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token configs: %w", err)
	}
	return configs, nil
}

// ReserveSupply adds qty to sold_amount only if it stays within total_supply.
func (r *TokenConfigRepo) ReserveSupply(ctx context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) (bool, error) {
	query := `UPDATE token_configs SET sold_amount = sold_amount + $2
		WHERE symbol = $1 AND sold_amount + $2 <= total_supply`

	tag, err := conn(r.pool, tx).Exec(ctx, query, string(symbol), qty)
	if err != nil {
		return false, fmt.Errorf("reserve supply: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseSupply returns qty to the unsold supply.
func (r *TokenConfigRepo) ReleaseSupply(ctx context.Context, tx pgx.Tx, symbol domain.TokenSymbol, qty decimal.Decimal) error {
	query := `UPDATE token_configs SET sold_amount = GREATEST(sold_amount - $2, 0) WHERE symbol = $1`

	if _, err := conn(r.pool, tx).Exec(ctx, query, string(symbol), qty); err != nil {
		return fmt.Errorf("release supply: %w", err)
	}
	return nil
}

func scanTokenConfig(row pgx.Row) (*domain.TokenConfig, error) {
	var cfg domain.TokenConfig
	err := row.Scan(
		&cfg.Symbol, &cfg.ContractAddress, &cfg.UnitPrice, &cfg.TotalSupply, &cfg.SoldAmount,
		&cfg.MaxPerWallet, &cfg.VestingPeriodDays, &cfg.Decimals, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan token config: %w", err)
	}
	return &cfg, nil
}
