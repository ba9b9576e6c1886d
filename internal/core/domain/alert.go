package domain

import "time"

// AlertEvent names an operator-facing event.
type AlertEvent string

const (
	AlertSettlementIndeterminate AlertEvent = "SETTLEMENT_INDETERMINATE"
	AlertClaimIndeterminate      AlertEvent = "CLAIM_INDETERMINATE"
	AlertManualReview            AlertEvent = "MANUAL_REVIEW"
	AlertConfigMissing           AlertEvent = "CONFIG_MISSING"
)

// Alert is delivered to operators when the service cannot resolve a state on its own.
type Alert struct {
	Event         AlertEvent     `json:"event"`
	Reference     string         `json:"reference"` // payment id, purchase id or token symbol
	WalletAddress string         `json:"wallet_address,omitempty"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}
