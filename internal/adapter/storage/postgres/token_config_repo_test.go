package postgres

import (
	"context"
	"testing"
	"time"

	"presale-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig() *domain.TokenConfig {
	limit := decimal.NewFromInt(200)
	return &domain.TokenConfig{
		Symbol:            domain.TokenGNF10,
		ContractAddress:   "0x3333333333333333333333333333333333333333",
		UnitPrice:         decimal.RequireFromString("0.2"),
		TotalSupply:       decimal.NewFromInt(1_000_000),
		SoldAmount:        decimal.NewFromInt(500),
		MaxPerWallet:      &limit,
		VestingPeriodDays: 30,
		Decimals:          18,
		UpdatedAt:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func tokenConfigRows(cfgs ...*domain.TokenConfig) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"symbol", "contract_address", "unit_price", "total_supply", "sold_amount",
		"max_per_wallet", "vesting_period_days", "decimals", "updated_at"})
	for _, c := range cfgs {
		rows.AddRow(c.Symbol, c.ContractAddress, c.UnitPrice, c.TotalSupply, c.SoldAmount,
			c.MaxPerWallet, c.VestingPeriodDays, c.Decimals, c.UpdatedAt)
	}
	return rows
}

func TestTokenConfigRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := newTestTokenConfig()
	mock.ExpectExec("INSERT INTO token_configs(.+)ON CONFLICT \\(symbol\\) DO UPDATE").
		WithArgs("GNF10", cfg.ContractAddress, cfg.UnitPrice, cfg.TotalSupply,
			cfg.MaxPerWallet, cfg.VestingPeriodDays, cfg.Decimals, cfg.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewTokenConfigRepo(mock).Upsert(context.Background(), cfg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenConfigRepo_GetBySymbol(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := newTestTokenConfig()
	mock.ExpectQuery("FROM token_configs WHERE symbol").
		WithArgs("GNF10").
		WillReturnRows(tokenConfigRows(cfg))

	got, err := NewTokenConfigRepo(mock).GetBySymbol(context.Background(), domain.TokenGNF10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, cfg.UnitPrice.Equal(got.UnitPrice))
	require.NotNil(t, got.MaxPerWallet)
	assert.True(t, decimal.NewFromInt(200).Equal(*got.MaxPerWallet))
	assert.Equal(t, int32(18), got.Decimals)
}

func TestTokenConfigRepo_GetBySymbol_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM token_configs WHERE symbol").
		WithArgs(string(domain.TokenGNF1000)).
		WillReturnError(pgx.ErrNoRows)

	got, err := NewTokenConfigRepo(mock).GetBySymbol(context.Background(), domain.TokenGNF1000)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenConfigRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	gnf10 := newTestTokenConfig()
	gnf100 := newTestTokenConfig()
	gnf100.Symbol = domain.TokenGNF100
	gnf100.MaxPerWallet = nil

	mock.ExpectQuery("FROM token_configs ORDER BY symbol").
		WillReturnRows(tokenConfigRows(gnf10, gnf100))

	got, err := NewTokenConfigRepo(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[1].MaxPerWallet)
}

func TestTokenConfigRepo_ReserveSupply(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"within supply", 1, true},
		{"would exceed supply", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			qty := decimal.NewFromInt(100)
			mock.ExpectBegin()
			mock.ExpectExec("SET sold_amount = sold_amount \\+ \\$2\\s+WHERE symbol = \\$1 AND sold_amount \\+ \\$2 <= total_supply").
				WithArgs("GNF10", qty).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			tx, err := mock.Begin(context.Background())
			require.NoError(t, err)

			ok, err := NewTokenConfigRepo(mock).ReserveSupply(context.Background(), tx, domain.TokenGNF10, qty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenConfigRepo_ReleaseSupply(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	qty := decimal.NewFromInt(40)
	mock.ExpectExec("SET sold_amount = GREATEST\\(sold_amount - \\$2, 0\\)").
		WithArgs("GNF10", qty).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, NewTokenConfigRepo(mock).ReleaseSupply(context.Background(), nil, domain.TokenGNF10, qty))
	assert.NoError(t, mock.ExpectationsWereMet())
}
