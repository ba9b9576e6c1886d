package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"presale-backend/internal/adapter/http/dto"
	"presale-backend/internal/adapter/http/middleware"
	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/internal/core/ports/mocks"
	"presale-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testWallet   = "0x52908400098527886e0f7030069857d2e4169ee7"
	testReferrer = "0x8617e340b3d01fa5f11f306f4090fd50e238070d"
	testTxHash   = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

// newContext builds a test context, optionally with a JSON body and an
// authenticated wallet.
func newContext(method, target string, body interface{}, wallet string) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		c.Set(middleware.CtxWallet, wallet)
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func samplePurchase(now time.Time) *domain.Purchase {
	return &domain.Purchase{
		ID:               uuid.New(),
		WalletAddress:    testWallet,
		TokenSymbol:      domain.TokenGNF10,
		Amount:           decimal.NewFromInt(20),
		TokenAmount:      decimal.NewFromInt(100),
		PaymentTxHash:    testTxHash,
		PaymentID:        "pay-1",
		SettlementTxHash: "0xsettle",
		PurchaseDate:     now,
		ClaimStatus:      domain.ClaimStatusUnclaimed,
		UpdatedAt:        now,
	}
}

// --- Auth Handler Tests ---

func TestChallenge_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(5 * time.Minute)
	mockAuth.EXPECT().Challenge(gomock.Any(), testWallet).Return("Sign in", expiry, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/challenge", dto.ChallengeRequest{Address: testWallet}, "")
	h.Challenge(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Sign in", data["message"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestChallenge_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	c, w := newContext(http.MethodPost, "/", dto.ChallengeRequest{Address: "0x1234"}, "")
	h.Challenge(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decode(t, w)["error_code"])
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), testWallet, "0xabcdef", gomock.Any()).Return("jwt-token-123", expiry, nil)

	c, w := newContext(http.MethodPost, "/", dto.LoginRequest{Address: testWallet, Signature: "0xabcdef"}, "")
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), testWallet, "0xbad0", gomock.Any()).Return("", time.Time{}, apperror.ErrInvalidSignature())

	c, w := newContext(http.MethodPost, "/", dto.LoginRequest{Address: testWallet, Signature: "0xbad0"}, "")
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_003", decode(t, w)["error_code"])
}

// --- Purchase Handler Tests ---

func validPurchaseBody() dto.PurchaseRequest {
	return dto.PurchaseRequest{
		TokenSymbol:    "GNF10",
		Amount:         "20",
		TokenAmountWei: "100000000000000000000",
		PaymentTxHash:  testTxHash,
	}
}

func TestPurchase_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase, nil)

	purchase := samplePurchase(time.Now())
	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.PurchaseRequest) (*ports.PurchaseResult, error) {
			assert.Equal(t, testWallet, req.WalletAddress)
			assert.Equal(t, "GNF10", req.TokenSymbol)
			assert.True(t, req.USDAmount.Equal(decimal.NewFromInt(20)))
			want, _ := new(big.Int).SetString("100000000000000000000", 10)
			assert.Equal(t, 0, want.Cmp(req.TokenAmountWei))
			assert.Nil(t, req.Referrer)
			assert.Nil(t, req.BonusAmount)
			return &ports.PurchaseResult{Purchase: purchase}, nil
		},
	)

	c, w := newContext(http.MethodPost, "/api/v1/purchases", validPurchaseBody(), testWallet)
	h.Purchase(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, purchase.ID.String(), data["id"])
	assert.Equal(t, "100", data["token_amount"])
	assert.Equal(t, "UNCLAIMED", data["claim_status"])
	assert.Nil(t, data["replayed"])
}

func TestPurchase_ReplayedAnswersOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase, nil)

	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(&ports.PurchaseResult{
		Purchase: samplePurchase(time.Now()),
		Replayed: true,
	}, nil)

	c, w := newContext(http.MethodPost, "/", validPurchaseBody(), testWallet)
	h.Purchase(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["replayed"])
}

func TestPurchase_PassesReferralAndBonus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase, nil)

	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.PurchaseRequest) (*ports.PurchaseResult, error) {
			require.NotNil(t, req.Referrer)
			assert.Equal(t, testReferrer, *req.Referrer)
			require.NotNil(t, req.BonusAmount)
			assert.Equal(t, "1.5", req.BonusAmount.String())
			return &ports.PurchaseResult{Purchase: samplePurchase(time.Now())}, nil
		},
	)

	body := validPurchaseBody()
	ref, bonus := testReferrer, "1.5"
	body.Referrer = &ref
	body.BonusAmount = &bonus
	c, w := newContext(http.MethodPost, "/", body, testWallet)
	h.Purchase(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPurchase_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPurchaseHandler(mocks.NewMockPurchaseService(ctrl), nil)

	body := validPurchaseBody()
	body.PaymentTxHash = "0x123"
	c, w := newContext(http.MethodPost, "/", body, testWallet)
	h.Purchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchase_RequiresWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPurchaseHandler(mocks.NewMockPurchaseService(ctrl), nil)

	c, w := newContext(http.MethodPost, "/", validPurchaseBody(), "")
	h.Purchase(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchase_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"limit exceeded", apperror.ErrPurchaseLimitExceeded("100", "200"), http.StatusUnprocessableEntity, "PUR_001"},
		{"sold out", apperror.ErrSoldOut("GNF10"), http.StatusUnprocessableEntity, "PUR_002"},
		{"verification failed", apperror.ErrVerificationFailed("reverted"), http.StatusPaymentRequired, "SET_001"},
		{"indeterminate", apperror.ErrIndeterminate("pay-1"), http.StatusAccepted, "SET_002"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "SYS_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockPurchase := mocks.NewMockPurchaseService(ctrl)
			h := NewPurchaseHandler(mockPurchase, nil)
			mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/", validPurchaseBody(), testWallet)
			h.Purchase(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w)["error_code"])
		})
	}
}

func TestListPurchases(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaim := mocks.NewMockClaimService(ctrl)
	h := NewPurchaseHandler(nil, mockClaim)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	vested := *samplePurchase(now.AddDate(0, 0, -40))
	orphan := *samplePurchase(now)
	mockClaim.EXPECT().ListPurchases(gomock.Any(), testWallet).Return([]ports.PurchaseView{
		{Purchase: vested, Vesting: domain.Vesting(vested.PurchaseDate, 30, now)},
		{Purchase: orphan},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/purchases", nil, testWallet)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]interface{})
	require.Len(t, items, 2)

	first := items[0].(map[string]interface{})
	vesting := first["vesting"].(map[string]interface{})
	assert.Equal(t, true, vesting["claimable"])
	assert.Equal(t, float64(0), vesting["remaining_days"])
	assert.Nil(t, items[1].(map[string]interface{})["vesting"])
}

func TestPurchaseLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase, nil)

	mockPurchase.EXPECT().CheckPurchaseLimit(gomock.Any(), testWallet, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, proposed decimal.Decimal) (*ports.LimitCheck, error) {
			assert.Equal(t, "150", proposed.String())
			return &ports.LimitCheck{
				Allowed:            false,
				CurrentBalance:     decimal.NewFromInt(100),
				RemainingAllowance: decimal.NewFromInt(100),
				Cap:                decimal.NewFromInt(200),
			}, nil
		},
	)

	c, w := newContext(http.MethodGet, "/api/v1/purchases/limit?token_amount=150", nil, testWallet)
	h.Limit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, "100", data["current_balance"])
	assert.Equal(t, "100", data["remaining_allowance"])
	assert.Equal(t, "200", data["cap"])
}

func TestPurchaseLimit_BadAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPurchaseHandler(mocks.NewMockPurchaseService(ctrl), nil)

	c, w := newContext(http.MethodGet, "/api/v1/purchases/limit?token_amount=lots", nil, testWallet)
	h.Limit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Claim Handler Tests ---

func TestClaim_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaim := mocks.NewMockClaimService(ctrl)
	h := NewClaimHandler(mockClaim)

	now := time.Now()
	purchase := samplePurchase(now.AddDate(-1, 0, 0))
	purchase.Claimed = true
	purchase.ClaimDate = &now
	purchase.ClaimStatus = domain.ClaimStatusClaimed
	units, _ := new(big.Int).SetString("100000000000000000000", 10)

	mockClaim.EXPECT().Claim(gomock.Any(), purchase.ID, testWallet).Return(&ports.ClaimResult{
		Purchase:       purchase,
		TransferTxHash: "0xtransfer",
		BaseUnits:      units,
	}, nil)

	c, w := newContext(http.MethodPost, "/", nil, testWallet)
	c.Params = gin.Params{{Key: "id", Value: purchase.ID.String()}}
	h.Claim(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "0xtransfer", data["transfer_tx_hash"])
	assert.Equal(t, "100000000000000000000", data["base_units"])
	assert.NotEmpty(t, data["claim_date"])
}

func TestClaim_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewClaimHandler(mocks.NewMockClaimService(ctrl))

	c, w := newContext(http.MethodPost, "/", nil, testWallet)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.Claim(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaim_VestingNotComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaim := mocks.NewMockClaimService(ctrl)
	h := NewClaimHandler(mockClaim)

	id := uuid.New()
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	mockClaim.EXPECT().Claim(gomock.Any(), id, testWallet).Return(nil, apperror.ErrVestingNotComplete(end, 1))

	c, w := newContext(http.MethodPost, "/", nil, testWallet)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Claim(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "CLM_002", resp["error_code"])
	details := resp["details"].(map[string]interface{})
	assert.Equal(t, "2027-01-01T00:00:00Z", details["vestingEndDate"])
	assert.Equal(t, float64(1), details["remainingDays"])
}

func TestClaimStatus_Owner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaim := mocks.NewMockClaimService(ctrl)
	h := NewClaimHandler(mockClaim)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	purchase := samplePurchase(now.AddDate(0, 0, -10))
	mockClaim.EXPECT().ClaimStatus(gomock.Any(), purchase.ID).Return(&ports.ClaimStatusView{
		Purchase: purchase,
		Vesting:  domain.Vesting(purchase.PurchaseDate, 30, now),
	}, nil)

	c, w := newContext(http.MethodGet, "/", nil, testWallet)
	c.Params = gin.Params{{Key: "id", Value: purchase.ID.String()}}
	h.ClaimStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["claimed"])
	assert.Equal(t, "UNCLAIMED", data["claim_status"])
	vesting := data["vesting"].(map[string]interface{})
	assert.Equal(t, float64(20), vesting["remaining_days"])
	assert.Equal(t, false, vesting["claimable"])
}

func TestClaimStatus_OtherWalletNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaim := mocks.NewMockClaimService(ctrl)
	h := NewClaimHandler(mockClaim)

	purchase := samplePurchase(time.Now())
	mockClaim.EXPECT().ClaimStatus(gomock.Any(), purchase.ID).Return(&ports.ClaimStatusView{Purchase: purchase}, nil)

	c, w := newContext(http.MethodGet, "/", nil, testReferrer)
	c.Params = gin.Params{{Key: "id", Value: purchase.ID.String()}}
	h.ClaimStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PUR_004", decode(t, w)["error_code"])
}

// --- Referral Handler Tests ---

func TestRecordReferral_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReferral := mocks.NewMockReferralService(ctrl)
	h := NewReferralHandler(mockReferral)

	link := &domain.ReferralLink{
		ID:          uuid.New(),
		Referrer:    testReferrer,
		Referred:    testWallet,
		BonusAmount: decimal.Zero,
		Timestamp:   time.Now(),
	}
	mockReferral.EXPECT().RecordReferral(gomock.Any(), testReferrer, testWallet).Return(link, nil)

	c, w := newContext(http.MethodPost, "/", dto.ReferralRequest{Referrer: testReferrer}, testWallet)
	h.Record(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, link.ID.String(), data["id"])
	assert.Equal(t, "0", data["bonus_amount"])
}

func TestRecordReferral_SelfReferral(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReferral := mocks.NewMockReferralService(ctrl)
	h := NewReferralHandler(mockReferral)

	mockReferral.EXPECT().RecordReferral(gomock.Any(), testWallet, testWallet).Return(nil, apperror.ErrSelfReferral())

	c, w := newContext(http.MethodPost, "/", dto.ReferralRequest{Referrer: testWallet}, testWallet)
	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_002", decode(t, w)["error_code"])
}

func TestReferralEarnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReferral := mocks.NewMockReferralService(ctrl)
	h := NewReferralHandler(mockReferral)

	mockReferral.EXPECT().Earnings(gomock.Any(), testWallet).Return(&domain.ReferralEarnings{
		TotalBonus:    decimal.RequireFromString("3.5"),
		ReferralCount: 2,
		RecentPurchases: []domain.ReferralPurchase{
			{Amount: decimal.NewFromInt(20), Bonus: decimal.NewFromInt(2), Timestamp: time.Now()},
		},
	}, nil)

	c, w := newContext(http.MethodGet, "/", nil, testWallet)
	h.Earnings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "3.5", data["total_bonus"])
	assert.Equal(t, float64(2), data["referral_count"])
	assert.Len(t, data["recent_purchases"], 1)
}

// --- Token Handler Tests ---

func TestListTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockTokenAdminService(ctrl)
	h := NewTokenHandler(mockAdmin)

	mockAdmin.EXPECT().List(gomock.Any()).Return([]domain.TokenConfig{{
		Symbol:            domain.TokenGNF10,
		UnitPrice:         decimal.RequireFromString("0.2"),
		TotalSupply:       decimal.NewFromInt(1000),
		SoldAmount:        decimal.NewFromInt(250),
		VestingPeriodDays: 30,
		Decimals:          18,
	}}, nil)

	c, w := newContext(http.MethodGet, "/", nil, "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "GNF10", item["symbol"])
	assert.Equal(t, "750", item["remaining_supply"])
	assert.Nil(t, item["max_per_wallet"])
}

func TestUpsertToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockTokenAdminService(ctrl)
	h := NewTokenHandler(mockAdmin)

	mockAdmin.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cfg *domain.TokenConfig) error {
			assert.Equal(t, domain.TokenGNF100, cfg.Symbol)
			assert.Equal(t, "0.5", cfg.UnitPrice.String())
			require.NotNil(t, cfg.MaxPerWallet)
			assert.Equal(t, "500", cfg.MaxPerWallet.String())
			return nil
		},
	)
	mockAdmin.EXPECT().List(gomock.Any()).Return([]domain.TokenConfig{{
		Symbol:      domain.TokenGNF100,
		UnitPrice:   decimal.RequireFromString("0.5"),
		TotalSupply: decimal.NewFromInt(1000),
		SoldAmount:  decimal.NewFromInt(40),
	}}, nil)

	maxPer := "500"
	c, w := newContext(http.MethodPut, "/", dto.TokenConfigRequest{
		ContractAddress:   testReferrer,
		UnitPrice:         "0.5",
		TotalSupply:       "1000",
		MaxPerWallet:      &maxPer,
		VestingPeriodDays: 90,
	}, "")
	c.Params = gin.Params{{Key: "symbol", Value: "gnf100"}}
	h.Upsert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "40", data["sold_amount"])
}

func TestUpsertToken_UnknownSymbol(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTokenHandler(mocks.NewMockTokenAdminService(ctrl))

	c, w := newContext(http.MethodPut, "/", nil, "")
	c.Params = gin.Params{{Key: "symbol", Value: "DOGE"}}
	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
