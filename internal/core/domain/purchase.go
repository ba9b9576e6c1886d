package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenSymbol identifies one of the presale token offerings.
type TokenSymbol string

const (
	TokenGNF10   TokenSymbol = "GNF10"
	TokenGNF100  TokenSymbol = "GNF100"
	TokenGNF1000 TokenSymbol = "GNF1000"
)

// optionIDs maps each offering to the presale contract's option identifier.
var optionIDs = map[TokenSymbol]uint8{
	TokenGNF10:   0,
	TokenGNF100:  1,
	TokenGNF1000: 2,
}

// ParseTokenSymbol returns the symbol if it names a known offering.
func ParseTokenSymbol(s string) (TokenSymbol, bool) {
	sym := TokenSymbol(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := optionIDs[sym]
	return sym, ok
}

// OptionID returns the settlement option identifier for the symbol.
func (s TokenSymbol) OptionID() (uint8, bool) {
	id, ok := optionIDs[s]
	return id, ok
}

// ClaimStatus tracks the claim state machine of a purchase.
type ClaimStatus string

const (
	ClaimStatusUnclaimed     ClaimStatus = "UNCLAIMED"
	ClaimStatusProcessing    ClaimStatus = "PROCESSING"
	ClaimStatusIndeterminate ClaimStatus = "INDETERMINATE"
	ClaimStatusClaimed       ClaimStatus = "CLAIMED"
)

// Purchase is a settled token allocation owned by a wallet.
type Purchase struct {
	ID               uuid.UUID       `json:"id"`
	WalletAddress    string          `json:"wallet_address"`
	TokenSymbol      TokenSymbol     `json:"token_symbol"`
	Amount           decimal.Decimal `json:"amount"`       // USD
	TokenAmount      decimal.Decimal `json:"token_amount"` // Amount / unit price at purchase time
	PaymentTxHash    string          `json:"payment_tx_hash"`
	PaymentID        string          `json:"payment_id"`
	SettlementTxHash string          `json:"settlement_tx_hash"`
	TransferTxHash   *string         `json:"transfer_tx_hash,omitempty"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	ClaimDate        *time.Time      `json:"claim_date,omitempty"`
	Claimed          bool            `json:"claimed"`
	ClaimStatus      ClaimStatus     `json:"claim_status"`
	Referrer         *string         `json:"referrer,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OwnedBy reports whether wallet owns the purchase, ignoring case.
func (p *Purchase) OwnedBy(wallet string) bool {
	return strings.EqualFold(p.WalletAddress, strings.TrimSpace(wallet))
}

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// NormalizeAddress lowercases and trims a wallet address.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsValidAddress reports whether addr is a 20-byte hex address.
func IsValidAddress(addr string) bool {
	return common.IsHexAddress(strings.TrimSpace(addr)) && strings.HasPrefix(strings.TrimSpace(addr), "0x")
}

// IsValidTxHash reports whether h is a 0x-prefixed 32-byte hex hash.
func IsValidTxHash(h string) bool {
	return txHashPattern.MatchString(h)
}
