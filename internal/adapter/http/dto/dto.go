package dto

// ChallengeRequest is the request body for a login challenge.
type ChallengeRequest struct {
Address string `json:"address" binding:"required,eth_addr"`
}

// ChallengeResponse carries the message the wallet must sign.
type ChallengeResponse struct {
Message string `json:"message"`
Expiry  int64  `json:"expiry"` // Unix timestamp
}

// LoginRequest is the request body for wallet login.
type LoginRequest struct {
Address   string `json:"address" binding:"required,eth_addr"`
Signature string `json:"signature" binding:"required,hexadecimal"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
Token  string `json:"token"`
Expiry int64  `json:"expiry"` // Unix timestamp
}

// PurchaseRequest is the request body for a token purchase. Amounts travel
// as strings so no precision is lost in JSON numbers.
type PurchaseRequest struct {
TokenSymbol    string  `json:"token_symbol" binding:"required,safe_id"`
Amount         string  `json:"amount" binding:"required,decimal_str"`
TokenAmountWei string  `json:"token_amount_wei" binding:"required,uint_str"`
PaymentTxHash  string  `json:"payment_tx_hash" binding:"required,tx_hash"`
Referrer       *string `json:"referrer,omitempty" binding:"omitempty,eth_addr"`
BonusAmount    *string `json:"bonus_amount,omitempty" binding:"omitempty,decimal_str"`
}

// PurchaseResponse is the response body for a purchase.
type PurchaseResponse struct {
ID               string  `json:"id"`
WalletAddress    string  `json:"wallet_address"`
TokenSymbol      string  `json:"token_symbol"`
Amount           string  `json:"amount"`
TokenAmount      string  `json:"token_amount"`
PaymentTxHash    string  `json:"payment_tx_hash"`
PaymentID        string  `json:"payment_id"`
SettlementTxHash string  `json:"settlement_tx_hash"`
TransferTxHash   *string `json:"transfer_tx_hash,omitempty"`
PurchaseDate     string  `json:"purchase_date"`
ClaimDate        *string `json:"claim_date,omitempty"`
Claimed          bool    `json:"claimed"`
ClaimStatus      string  `json:"claim_status"`
Referrer         *string `json:"referrer,omitempty"`
Replayed         bool    `json:"replayed,omitempty"`
}

// VestingResponse is the vesting state of a purchase.
type VestingResponse struct {
VestingEndDate string `json:"vesting_end_date"`
RemainingDays  int64  `json:"remaining_days"`
Claimable      bool   `json:"claimable"`
}

// PurchaseWithVesting pairs a purchase with its vesting state.
type PurchaseWithVesting struct {
PurchaseResponse
Vesting *VestingResponse `json:"vesting,omitempty"`
}

// LimitResponse is the response for a purchase limit check.
type LimitResponse struct {
Allowed            bool   `json:"allowed"`
CurrentBalance     string `json:"current_balance"`
RemainingAllowance string `json:"remaining_allowance"`
Cap                string `json:"cap"`
}

// ClaimResponse is the response body for a successful claim.
type ClaimResponse struct {
PurchaseID     string `json:"purchase_id"`
TransferTxHash string `json:"transfer_tx_hash"`
BaseUnits      string `json:"base_units"`
ClaimDate      string `json:"claim_date"`
}

// ClaimStatusResponse is the claim and vesting state of one purchase.
type ClaimStatusResponse struct {
PurchaseID     string          `json:"purchase_id"`
Claimed        bool            `json:"claimed"`
ClaimStatus    string          `json:"claim_status"`
ClaimDate      *string         `json:"claim_date,omitempty"`
TransferTxHash *string         `json:"transfer_tx_hash,omitempty"`
Vesting        VestingResponse `json:"vesting"`
}

// ReferralRequest records the authenticated wallet as referred by Referrer.
type ReferralRequest struct {
Referrer string `json:"referrer" binding:"required,eth_addr"`
}

// ReferralResponse is the stored referral link.
type ReferralResponse struct {
ID          string `json:"id"`
Referrer    string `json:"referrer"`
Referred    string `json:"referred"`
BonusAmount string `json:"bonus_amount"`
Timestamp   string `json:"timestamp"`
}

// ReferralPurchaseResponse is one referred purchase.
type ReferralPurchaseResponse struct {
Amount    string `json:"amount"`
Bonus     string `json:"bonus"`
Timestamp string `json:"timestamp"`
}

// EarningsResponse aggregates a referrer's bonuses.
type EarningsResponse struct {
TotalBonus      string                     `json:"total_bonus"`
ReferralCount   int                        `json:"referral_count"`
RecentPurchases []ReferralPurchaseResponse `json:"recent_purchases"`
}

// TokenConfigRequest is the request body for a token configuration upsert.
type TokenConfigRequest struct {
ContractAddress   string  `json:"contract_address" binding:"required,eth_addr"`
UnitPrice         string  `json:"unit_price" binding:"required,decimal_str"`
TotalSupply       string  `json:"total_supply" binding:"required,decimal_str"`
MaxPerWallet      *string `json:"max_per_wallet,omitempty" binding:"omitempty,decimal_str"`
VestingPeriodDays int     `json:"vesting_period_days" binding:"gte=0"`
Decimals          int32   `json:"decimals" binding:"gte=0,lte=36"`
}

// TokenConfigResponse is a token configuration with its remaining supply.
type TokenConfigResponse struct {
Symbol            string  `json:"symbol"`
ContractAddress   string  `json:"contract_address"`
UnitPrice         string  `json:"unit_price"`
TotalSupply       string  `json:"total_supply"`
SoldAmount        string  `json:"sold_amount"`
RemainingSupply   string  `json:"remaining_supply"`
MaxPerWallet      *string `json:"max_per_wallet,omitempty"`
VestingPeriodDays int     `json:"vesting_period_days"`
Decimals          int32   `json:"decimals"`
}
