package ports

import (
	"context"
	"errors"
	"math/big"
	"time"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement outcome sentinels. Oracle adapters wrap them with %w; any other
// error means the outcome is unknown.
var (
	// ErrSettlementReverted means the contract call reverted (dry-run or mined).
	ErrSettlementReverted = errors.New("settlement reverted")
	// ErrSettlementRejected means the node refused the transaction before broadcast.
	ErrSettlementRejected = errors.New("settlement rejected")
)

// SettlementOracle confirms payments and transfers tokens on chain.
type SettlementOracle interface {
	// Simulate dry-runs the payment verification call.
	Simulate(ctx context.Context, call domain.PaymentCall) error
	// SubmitPayment broadcasts the payment verification. A non-empty hash
	// returned with an error means the transaction may have been broadcast;
	// an empty hash with an error means nothing left the process.
	SubmitPayment(ctx context.Context, call domain.PaymentCall) (string, error)
	// Transfer broadcasts a token transfer; hash semantics match SubmitPayment.
	Transfer(ctx context.Context, call domain.TransferCall) (string, error)
	// WaitForReceipt blocks until the transaction is mined or ctx ends.
	WaitForReceipt(ctx context.Context, txHash string) (*domain.Receipt, error)
	// Receipt returns the current receipt, with status NOT_FOUND if unmined.
	Receipt(ctx context.Context, txHash string) (*domain.Receipt, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// RateDecision is the outcome of a rate limiter check.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter throttles requests per key inside a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HashService handles secret hashing (Argon2id).
type HashService interface {
	Hash(secret string) (string, error)
	Verify(secret string, hash string) (bool, error)
}

// TokenService handles JWT session tokens.
type TokenService interface {
	Generate(wallet string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	WalletAddress string
}

// IdempotencyCache is the Redis-layer replay check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ChallengeStore keeps single-use login nonces.
type ChallengeStore interface {
	// Put stores the nonce for wallet, replacing any previous one.
	Put(ctx context.Context, wallet string, nonce string, ttl time.Duration) error
	// Take atomically returns and deletes the nonce; "" if none.
	Take(ctx context.Context, wallet string) (string, error)
}

// AlertService notifies operators.
type AlertService interface {
	Notify(ctx context.Context, alert domain.Alert)
}

// AuditService records audit entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// PurchaseService runs the purchase lifecycle.
type PurchaseService interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
	CheckPurchaseLimit(ctx context.Context, wallet string, proposedTokens decimal.Decimal) (*LimitCheck, error)
}

// PurchaseRequest holds input for a purchase.
type PurchaseRequest struct {
	WalletAddress  string
	TokenSymbol    string
	USDAmount      decimal.Decimal
	TokenAmountWei *big.Int
	PaymentTxHash  string
	Referrer       *string
	BonusAmount    *decimal.Decimal
	ClientIP       string
}

// PurchaseResult is returned by a committed or replayed purchase.
type PurchaseResult struct {
	Purchase *domain.Purchase `json:"purchase"`
	Replayed bool             `json:"replayed"`
}

// LimitCheck is the outcome of a per-wallet cap check.
type LimitCheck struct {
	Allowed            bool            `json:"allowed"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	RemainingAllowance decimal.Decimal `json:"remaining_allowance"`
	Cap                decimal.Decimal `json:"cap"`
}

// ClaimService runs the claim lifecycle.
type ClaimService interface {
	Claim(ctx context.Context, purchaseID uuid.UUID, wallet string) (*ClaimResult, error)
	ClaimStatus(ctx context.Context, purchaseID uuid.UUID) (*ClaimStatusView, error)
	ListPurchases(ctx context.Context, wallet string) ([]PurchaseView, error)
}

// ClaimResult is returned by a successful claim.
type ClaimResult struct {
	Purchase       *domain.Purchase
	TransferTxHash string
	BaseUnits      *big.Int
}

// ClaimStatusView is the vesting and claim state of one purchase.
type ClaimStatusView struct {
	Purchase *domain.Purchase
	Vesting  domain.VestingStatus
}

// PurchaseView pairs a purchase with its current vesting status.
type PurchaseView struct {
	Purchase domain.Purchase
	Vesting  domain.VestingStatus
}

// ReferralService records referrals and aggregates earnings.
type ReferralService interface {
	RecordReferral(ctx context.Context, referrer, referred string) (*domain.ReferralLink, error)
	Earnings(ctx context.Context, referrer string) (*domain.ReferralEarnings, error)
}

// AuthService authenticates wallets by signed challenge.
type AuthService interface {
	Challenge(ctx context.Context, wallet string) (string, time.Time, error) // message, expiry, error
	Login(ctx context.Context, wallet, signature, clientIP string) (string, time.Time, error)
}

// TokenAdminService manages token sale configuration.
type TokenAdminService interface {
	List(ctx context.Context) ([]domain.TokenConfig, error)
	Upsert(ctx context.Context, cfg *domain.TokenConfig) error
	VerifyAdminKey(key string) bool
}

// Reconciler resolves settlements and claims whose outcome is unknown.
type Reconciler interface {
	RunOnce(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport counts the decisions of one reconciler pass.
type ReconcileReport struct {
	Committed      int `json:"committed"`
	Failed         int `json:"failed"`
	ManualReview   int `json:"manual_review"`
	Pending        int `json:"pending"`
	ClaimsComplete int `json:"claims_completed"`
	ClaimsReleased int `json:"claims_released"`
}
