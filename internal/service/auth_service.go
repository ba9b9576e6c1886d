package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/pkg/apperror"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// DefaultChallengeTTL bounds how long a login nonce stays usable.
const DefaultChallengeTTL = 5 * time.Minute

const challengeNonceBytes = 16

// AuthServiceImpl implements ports.AuthService with signed wallet challenges.
type AuthServiceImpl struct {
	challenges ports.ChallengeStore
	tokenSvc   ports.TokenService
	audit      ports.AuditService
	clock      ports.Clock
	ttl        time.Duration
	log        zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	challenges ports.ChallengeStore,
	tokenSvc ports.TokenService,
	audit ports.AuditService,
	clock ports.Clock,
	ttl time.Duration,
	log zerolog.Logger,
) *AuthServiceImpl {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &AuthServiceImpl{
		challenges: challenges,
		tokenSvc:   tokenSvc,
		audit:      audit,
		clock:      clock,
		ttl:        ttl,
		log:        log,
	}
}

// ChallengeMessage is the text a wallet signs to log in.
func ChallengeMessage(wallet, nonce string) string {
	return fmt.Sprintf("Sign in to presale-backend\nWallet: %s\nNonce: %s", wallet, nonce)
}

// Challenge issues a single-use nonce for wallet and returns the message to sign.
func (s *AuthServiceImpl) Challenge(ctx context.Context, wallet string) (string, time.Time, error) {
	if !domain.IsValidAddress(wallet) {
		return "", time.Time{}, apperror.Validation("address must be a 0x-prefixed 20-byte hex address")
	}
	wallet = domain.NormalizeAddress(wallet)

	nonce, err := generateRandomHex(challengeNonceBytes)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate nonce: %w", err))
	}

	if err := s.challenges.Put(ctx, wallet, nonce, s.ttl); err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("store challenge: %w", err))
	}

	return ChallengeMessage(wallet, nonce), s.clock.Now().Add(s.ttl), nil
}

// Login consumes the wallet's nonce, verifies the personal-sign signature
// over the challenge message and returns a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, wallet, signature, clientIP string) (string, time.Time, error) {
	if !domain.IsValidAddress(wallet) {
		return "", time.Time{}, apperror.Validation("address must be a 0x-prefixed 20-byte hex address")
	}
	wallet = domain.NormalizeAddress(wallet)

	// Step 1: consume the nonce; a failed login still burns it
	nonce, err := s.challenges.Take(ctx, wallet)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("load challenge: %w", err))
	}
	if nonce == "" {
		return "", time.Time{}, apperror.ErrInvalidSignature()
	}

	// Step 2: recover the signer
	signer, err := RecoverPersonalSigner(ChallengeMessage(wallet, nonce), signature)
	if err != nil {
		s.log.Debug().Err(err).Str("wallet", wallet).Msg("signature recovery failed")
		return "", time.Time{}, apperror.ErrInvalidSignature()
	}
	if domain.NormalizeAddress(signer.Hex()) != wallet {
		return "", time.Time{}, apperror.ErrInvalidSignature()
	}

	// Step 3: issue session
	token, expiry, err := s.tokenSvc.Generate(wallet)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.audit.Log(ctx, &domain.AuditLog{
		WalletAddress: &wallet,
		Action:        domain.AuditActionLogin,
		ResourceType:  "session",
		ResourceID:    wallet,
		IPAddress:     clientIP,
	})

	return token, expiry, nil
}

// RecoverPersonalSigner returns the address that produced an EIP-191
// personal_sign signature over message. V may be 0/1 or 27/28.
func RecoverPersonalSigner(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
