package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a client-visible detail and returns the same error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the AppError code carried by err, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given AppError code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Error codes.
const (
	CodeValidation            = "VAL_001"
	CodeSelfReferral          = "VAL_002"
	CodeRateLimited           = "RATE_001"
	CodePurchaseLimitExceeded = "PUR_001"
	CodeSoldOut               = "PUR_002"
	CodeDuplicatePayment      = "PUR_003"
	CodeNotFound              = "PUR_004"
	CodeVerificationFailed    = "SET_001"
	CodeIndeterminate         = "SET_002"
	CodeSettlementUnavailable = "SET_003"
	CodeUnauthorized          = "AUTH_001"
	CodeInvalidToken          = "AUTH_002"
	CodeInvalidSignature      = "AUTH_003"
	CodeAlreadyClaimed        = "CLM_001"
	CodeVestingNotComplete    = "CLM_002"
	CodeClaimInProgress       = "CLM_003"
	CodeConfigMissing         = "CFG_001"
	CodeInternal              = "SYS_001"
)

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error; the caller must fix the input.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrSelfReferral() *AppError {
	return New(CodeSelfReferral, "Referrer and referred wallet must differ", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimited(retryAfter time.Duration) *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests).
		WithDetail("retryAfterSeconds", int64(retryAfter.Round(time.Second)/time.Second))
}

// ---- Purchases (PUR) ----

func ErrPurchaseLimitExceeded(current, limit string) *AppError {
	return New(CodePurchaseLimitExceeded, "Purchase exceeds per-wallet allocation", http.StatusUnprocessableEntity).
		WithDetail("currentBalance", current).
		WithDetail("cap", limit)
}

func ErrSoldOut(symbol string) *AppError {
	return New(CodeSoldOut, fmt.Sprintf("%s allocation is sold out", symbol), http.StatusUnprocessableEntity)
}

func ErrDuplicatePayment() *AppError {
	return New(CodeDuplicatePayment, "Payment transaction already used", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Settlement (SET) ----

func ErrVerificationFailed(reason string) *AppError {
	return New(CodeVerificationFailed, "Payment verification failed", http.StatusPaymentRequired).
		WithDetail("reason", reason)
}

// ErrIndeterminate reports that the settlement outcome is unknown and needs
// reconciliation. Clients must not resubmit.
func ErrIndeterminate(reference string) *AppError {
	return New(CodeIndeterminate, "Settlement outcome unknown, pending reconciliation", http.StatusAccepted).
		WithDetail("reference", reference)
}

func ErrSettlementUnavailable(err error) *AppError {
	return Wrap(CodeSettlementUnavailable, "Settlement service unavailable, retry later", http.StatusServiceUnavailable, err)
}

// ---- Authentication (AUTH) ----

func ErrUnauthorized() *AppError {
	return New(CodeUnauthorized, "Wallet does not own this resource", http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Invalid wallet signature", http.StatusUnauthorized)
}

// ---- Claims (CLM) ----

func ErrAlreadyClaimed() *AppError {
	return New(CodeAlreadyClaimed, "Purchase already claimed", http.StatusConflict)
}

func ErrVestingNotComplete(vestingEnd time.Time, remainingDays int64) *AppError {
	return New(CodeVestingNotComplete, "Vesting period not complete", http.StatusConflict).
		WithDetail("vestingEndDate", vestingEnd.UTC().Format(time.RFC3339)).
		WithDetail("remainingDays", remainingDays)
}

func ErrClaimInProgress() *AppError {
	return New(CodeClaimInProgress, "Claim already in progress", http.StatusConflict)
}

// ---- Configuration (CFG) ----

func ErrConfigMissing(symbol string) *AppError {
	return New(CodeConfigMissing, fmt.Sprintf("Token configuration missing for %s", symbol), http.StatusInternalServerError)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
