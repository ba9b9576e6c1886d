package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTokenDecimals is used when a token config does not specify decimals.
const DefaultTokenDecimals int32 = 18

// TokenConfig is the sale configuration of one offering.
type TokenConfig struct {
	Symbol            TokenSymbol      `json:"symbol"`
	ContractAddress   string           `json:"contract_address"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	TotalSupply       decimal.Decimal  `json:"total_supply"`
	SoldAmount        decimal.Decimal  `json:"sold_amount"`
	MaxPerWallet      *decimal.Decimal `json:"max_per_wallet,omitempty"`
	VestingPeriodDays int              `json:"vesting_period_days"`
	Decimals          int32            `json:"decimals"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TokensFor converts a USD amount to a token quantity at the unit price.
func (t *TokenConfig) TokensFor(usd decimal.Decimal) decimal.Decimal {
	return usd.Div(t.UnitPrice)
}

// Remaining returns the unsold supply, never negative.
func (t *TokenConfig) Remaining() decimal.Decimal {
	r := t.TotalSupply.Sub(t.SoldAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// CanSell reports whether qty more tokens fit in the total supply.
func (t *TokenConfig) CanSell(qty decimal.Decimal) bool {
	return t.SoldAmount.Add(qty).LessThanOrEqual(t.TotalSupply)
}

// BaseUnits converts a token quantity to the token's integer base units,
// truncating any fraction below one base unit.
func (t *TokenConfig) BaseUnits(qty decimal.Decimal) *big.Int {
	d := t.Decimals
	if d <= 0 {
		d = DefaultTokenDecimals
	}
	return qty.Shift(d).Truncate(0).BigInt()
}
