package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// AttemptStatus is the lifecycle state of a settlement attempt.
type AttemptStatus string

const (
	AttemptStatusPending       AttemptStatus = "PENDING"
	AttemptStatusSubmitted     AttemptStatus = "SUBMITTED"
	AttemptStatusConfirmed     AttemptStatus = "CONFIRMED"
	AttemptStatusFailed        AttemptStatus = "FAILED"
	AttemptStatusIndeterminate AttemptStatus = "INDETERMINATE"
	AttemptStatusManualReview  AttemptStatus = "MANUAL_REVIEW"
)

// SettlementAttempt reserves allocation for a purchase while the oracle settles it.
type SettlementAttempt struct {
	PaymentID        string           `json:"payment_id"`
	WalletAddress    string           `json:"wallet_address"`
	TokenSymbol      TokenSymbol      `json:"token_symbol"`
	USDAmount        decimal.Decimal  `json:"usd_amount"`
	TokenAmount      decimal.Decimal  `json:"token_amount"`
	TokenAmountWei   *big.Int         `json:"token_amount_wei"`
	PaymentTxHash    string           `json:"payment_tx_hash"`
	Referrer         *string          `json:"referrer,omitempty"`
	BonusAmount      *decimal.Decimal `json:"bonus_amount,omitempty"`
	Status           AttemptStatus    `json:"status"`
	SettlementTxHash *string          `json:"settlement_tx_hash,omitempty"`
	FailureReason    *string          `json:"failure_reason,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HoldsReservation reports whether the attempt still counts against the
// wallet cap and the token supply.
func (a *SettlementAttempt) HoldsReservation() bool {
	switch a.Status {
	case AttemptStatusPending, AttemptStatusSubmitted,
		AttemptStatusIndeterminate, AttemptStatusManualReview:
		return true
	}
	return false
}

// IsTerminal returns true if the attempt is in a final state.
func (a *SettlementAttempt) IsTerminal() bool {
	return a.Status == AttemptStatusConfirmed || a.Status == AttemptStatusFailed
}

// BuildPaymentID constructs the payment correlation id "wallet|unixMillis|suffix".
func BuildPaymentID(wallet string, at time.Time, suffix string) string {
	return fmt.Sprintf("%s|%d|%s", wallet, at.UnixMilli(), suffix)
}

// PaymentCall carries the arguments of the presale contract's payment verification.
type PaymentCall struct {
	Buyer     string
	OptionID  uint8
	Amount    *big.Int
	PaymentID string
}

// TransferCall moves base units of a token to a wallet.
type TransferCall struct {
	To            string
	Amount        *big.Int
	TokenContract string
}

// ReceiptStatus is the observed on-chain outcome of a transaction.
type ReceiptStatus string

const (
	ReceiptNotFound ReceiptStatus = "NOT_FOUND"
	ReceiptSuccess  ReceiptStatus = "SUCCESS"
	ReceiptReverted ReceiptStatus = "REVERTED"
)

// Receipt is the oracle's view of a mined (or unmined) transaction.
type Receipt struct {
	TxHash      string        `json:"tx_hash"`
	Status      ReceiptStatus `json:"status"`
	BlockNumber uint64        `json:"block_number,omitempty"`
}
