package service

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"testing"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports/mocks"
	"presale-backend/pkg/apperror"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockChallengeStore,
	*mocks.MockTokenService,
	*mocks.MockAuditService,
) {
	ctrl := gomock.NewController(t)
	challenges := mocks.NewMockChallengeStore(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)

	svc := NewAuthService(challenges, tokenSvc, audit, newFakeClock(authNow), 0, newTestLogger())
	return svc, challenges, tokenSvc, audit
}

func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string, legacyV bool) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	if legacyV {
		sig[crypto.RecoveryIDOffset] += 27
	}
	return hexutil.Encode(sig)
}

func newWalletKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, domain.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestAuthService_Challenge_StoresNonce(t *testing.T) {
	svc, challenges, _, _ := setupAuthService(t)
	ctx := context.Background()

	var stored string
	challenges.EXPECT().Put(ctx, testWallet, gomock.Any(), DefaultChallengeTTL).
		DoAndReturn(func(_ context.Context, _ string, nonce string, _ time.Duration) error {
			stored = nonce
			return nil
		})

	msg, expiry, err := svc.Challenge(ctx, "0x9F8A26F2C9F90C4E2D4B8E5D1C2A3B4C5D6E7F80")
	require.NoError(t, err)
	assert.Len(t, stored, 32)
	assert.Equal(t, ChallengeMessage(testWallet, stored), msg)
	assert.Equal(t, authNow.Add(DefaultChallengeTTL), expiry)
}

func TestAuthService_Challenge_InvalidAddress(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, _, err := svc.Challenge(context.Background(), "not-a-wallet")
	assertCode(t, err, apperror.CodeValidation)
}

func TestAuthService_Login_Success(t *testing.T) {
	for _, legacyV := range []bool{false, true} {
		svc, challenges, tokenSvc, audit := setupAuthService(t)
		ctx := context.Background()
		key, wallet := newWalletKey(t)

		challenges.EXPECT().Take(ctx, wallet).Return("abc123", nil)
		tokenSvc.EXPECT().Generate(wallet).Return("jwt_token_here", authNow.Add(time.Hour), nil)
		audit.EXPECT().Log(ctx, gomock.Any())

		sig := signPersonal(t, key, ChallengeMessage(wallet, "abc123"), legacyV)
		token, _, err := svc.Login(ctx, wallet, sig, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, "jwt_token_here", token)
	}
}

func TestAuthService_Login_NoChallenge(t *testing.T) {
	svc, challenges, _, _ := setupAuthService(t)
	ctx := context.Background()
	_, wallet := newWalletKey(t)

	challenges.EXPECT().Take(ctx, wallet).Return("", nil)

	_, _, err := svc.Login(ctx, wallet, "0x00", "")
	assertCode(t, err, apperror.CodeInvalidSignature)
}

func TestAuthService_Login_WrongSigner(t *testing.T) {
	svc, challenges, _, _ := setupAuthService(t)
	ctx := context.Background()
	_, wallet := newWalletKey(t)
	otherKey, _ := newWalletKey(t)

	challenges.EXPECT().Take(ctx, wallet).Return("abc123", nil)

	sig := signPersonal(t, otherKey, ChallengeMessage(wallet, "abc123"), false)
	_, _, err := svc.Login(ctx, wallet, sig, "")
	assertCode(t, err, apperror.CodeInvalidSignature)
}

func TestAuthService_Login_StaleNonce(t *testing.T) {
	svc, challenges, _, _ := setupAuthService(t)
	ctx := context.Background()
	key, wallet := newWalletKey(t)

	challenges.EXPECT().Take(ctx, wallet).Return("fresh", nil)

	sig := signPersonal(t, key, ChallengeMessage(wallet, "stale"), false)
	_, _, err := svc.Login(ctx, wallet, sig, "")
	assertCode(t, err, apperror.CodeInvalidSignature)
}

func TestAuthService_Login_MalformedSignature(t *testing.T) {
	svc, challenges, _, _ := setupAuthService(t)
	ctx := context.Background()
	_, wallet := newWalletKey(t)

	challenges.EXPECT().Take(ctx, wallet).Return("abc123", nil)

	_, _, err := svc.Login(ctx, wallet, "0xdeadbeef", "")
	assertCode(t, err, apperror.CodeInvalidSignature)
}

func TestRecoverPersonalSigner(t *testing.T) {
	key, wallet := newWalletKey(t)
	sig := signPersonal(t, key, "hello", true)

	addr, err := RecoverPersonalSigner("hello", sig)
	require.NoError(t, err)
	assert.Equal(t, wallet, domain.NormalizeAddress(addr.Hex()))

	_, err = RecoverPersonalSigner("hello", "zz")
	assert.Error(t, err)
}
