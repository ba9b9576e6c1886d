package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("PUR_001", "Purchase exceeds per-wallet allocation", http.StatusUnprocessableEntity),
			expected: "[PUR_001] Purchase exceeds per-wallet allocation",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("claim: %w", ErrAlreadyClaimed())
	assert.Equal(t, CodeAlreadyClaimed, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeAlreadyClaimed))
	assert.False(t, Is(wrapped, CodeNotFound))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.False(t, Is(nil, CodeInternal))
}

func TestErrorCatalog(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad"), "VAL_001", 400},
		{"SelfReferral", ErrSelfReferral(), "VAL_002", 400},
		{"RateLimited", ErrRateLimited(time.Minute), "RATE_001", 429},
		{"PurchaseLimitExceeded", ErrPurchaseLimitExceeded("100", "200"), "PUR_001", 422},
		{"SoldOut", ErrSoldOut("GNF10"), "PUR_002", 422},
		{"DuplicatePayment", ErrDuplicatePayment(), "PUR_003", 409},
		{"NotFound", ErrNotFound("Purchase"), "PUR_004", 404},
		{"VerificationFailed", ErrVerificationFailed("revert"), "SET_001", 402},
		{"Indeterminate", ErrIndeterminate("pid"), "SET_002", 202},
		{"SettlementUnavailable", ErrSettlementUnavailable(errors.New("x")), "SET_003", 503},
		{"Unauthorized", ErrUnauthorized(), "AUTH_001", 403},
		{"InvalidToken", ErrInvalidToken(), "AUTH_002", 401},
		{"InvalidSignature", ErrInvalidSignature(), "AUTH_003", 401},
		{"AlreadyClaimed", ErrAlreadyClaimed(), "CLM_001", 409},
		{"VestingNotComplete", ErrVestingNotComplete(time.Now(), 3), "CLM_002", 409},
		{"ClaimInProgress", ErrClaimInProgress(), "CLM_003", 409},
		{"ConfigMissing", ErrConfigMissing("GNF10"), "CFG_001", 500},
		{"Internal", InternalError(errors.New("x")), "SYS_001", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestVestingNotComplete_Details(t *testing.T) {
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := ErrVestingNotComplete(end, 12)

	assert.Equal(t, "2026-03-01T12:00:00Z", err.Details["vestingEndDate"])
	assert.Equal(t, int64(12), err.Details["remainingDays"])
}

func TestRateLimited_RetryAfterDetail(t *testing.T) {
	err := ErrRateLimited(90 * time.Second)
	assert.Equal(t, int64(90), err.Details["retryAfterSeconds"])
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Purchase")
	assert.Contains(t, err.Message, "Purchase")
	assert.Equal(t, "PUR_004", err.Code)
}
