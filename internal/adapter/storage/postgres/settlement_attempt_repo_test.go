package postgres

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttempt() *domain.SettlementAttempt {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	wei, _ := new(big.Int).SetString("100000000000000000000", 10)
	return &domain.SettlementAttempt{
		PaymentID:      testWallet + "|1768046400000|abc",
		WalletAddress:  testWallet,
		TokenSymbol:    domain.TokenGNF10,
		USDAmount:      decimal.NewFromInt(20),
		TokenAmount:    decimal.NewFromInt(100),
		TokenAmountWei: wei,
		PaymentTxHash:  "0x" + strings.Repeat("a", 64),
		Status:         domain.AttemptStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func attemptRows(attempts ...*domain.SettlementAttempt) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"payment_id", "wallet_address", "token_symbol", "usd_amount", "token_amount",
		"token_amount_wei", "payment_tx_hash", "referrer", "bonus_amount", "status",
		"settlement_tx_hash", "failure_reason", "created_at", "updated_at"})
	for _, a := range attempts {
		rows.AddRow(a.PaymentID, a.WalletAddress, a.TokenSymbol, a.USDAmount, a.TokenAmount,
			a.TokenAmountWei.String(), a.PaymentTxHash, a.Referrer, a.BonusAmount, a.Status,
			a.SettlementTxHash, a.FailureReason, a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func TestSettlementAttemptRepo_LockWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock\\(hashtext\\(\\$1\\)\\)").
		WithArgs(testWallet).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	repo := NewSettlementAttemptRepo(mock)
	require.NoError(t, repo.LockWallet(context.Background(), tx, testWallet))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementAttemptRepo_LockWallet_RequiresTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = NewSettlementAttemptRepo(mock).LockWallet(context.Background(), nil, testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction required")
}

func TestSettlementAttemptRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAttempt()
	bonus := decimal.NewFromInt(1)
	a.Referrer = strPtr(testReferrer)
	a.BonusAmount = &bonus

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settlement_attempts").
		WithArgs(a.PaymentID, a.WalletAddress, "GNF10", a.USDAmount, a.TokenAmount,
			"100000000000000000000", a.PaymentTxHash, a.Referrer, a.BonusAmount, "PENDING",
			a.SettlementTxHash, a.FailureReason, a.CreatedAt, a.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, NewSettlementAttemptRepo(mock).Create(context.Background(), tx, a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementAttemptRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAttempt()
	a.Status = domain.AttemptStatusSubmitted
	a.SettlementTxHash = strPtr("0x" + strings.Repeat("b", 64))

	mock.ExpectQuery("FROM settlement_attempts WHERE payment_id").
		WithArgs(a.PaymentID).
		WillReturnRows(attemptRows(a))

	got, err := NewSettlementAttemptRepo(mock).Get(context.Background(), a.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.AttemptStatusSubmitted, got.Status)
	assert.Equal(t, 0, a.TokenAmountWei.Cmp(got.TokenAmountWei))
	assert.Equal(t, *a.SettlementTxHash, *got.SettlementTxHash)
	assert.Nil(t, got.BonusAmount)
}

func TestSettlementAttemptRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM settlement_attempts WHERE payment_id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := NewSettlementAttemptRepo(mock).Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementAttemptRepo_Get_BadWei(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAttempt()
	rows := pgxmock.NewRows([]string{"payment_id", "wallet_address", "token_symbol", "usd_amount", "token_amount",
		"token_amount_wei", "payment_tx_hash", "referrer", "bonus_amount", "status",
		"settlement_tx_hash", "failure_reason", "created_at", "updated_at"}).
		AddRow(a.PaymentID, a.WalletAddress, a.TokenSymbol, a.USDAmount, a.TokenAmount,
			"1e20", a.PaymentTxHash, a.Referrer, a.BonusAmount, a.Status,
			a.SettlementTxHash, a.FailureReason, a.CreatedAt, a.UpdatedAt)
	mock.ExpectQuery("FROM settlement_attempts WHERE payment_id").
		WithArgs(a.PaymentID).
		WillReturnRows(rows)

	_, err = NewSettlementAttemptRepo(mock).Get(context.Background(), a.PaymentID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token_amount_wei")
}

func TestSettlementAttemptRepo_GetActiveByPaymentTxHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAttempt()
	mock.ExpectQuery("WHERE payment_tx_hash = \\$1 AND status <> 'FAILED'").
		WithArgs(a.PaymentTxHash).
		WillReturnRows(attemptRows(a))

	got, err := NewSettlementAttemptRepo(mock).GetActiveByPaymentTxHash(context.Background(), nil, a.PaymentTxHash)
	require.NoError(t, err)
	assert.Equal(t, a.PaymentID, got.PaymentID)
}

func TestSettlementAttemptRepo_SumReserved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(token_amount\\), 0\\) FROM settlement_attempts").
		WithArgs(testWallet, "GNF10", []string{"PENDING", "SUBMITTED", "INDETERMINATE", "MANUAL_REVIEW"}).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(50)))

	total, err := NewSettlementAttemptRepo(mock).SumReserved(context.Background(), nil, testWallet, domain.TokenGNF10)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(total))
}

func TestSettlementAttemptRepo_UpdateStatus(t *testing.T) {
	hash := strPtr("0x" + strings.Repeat("b", 64))
	at := time.Date(2026, 1, 10, 12, 1, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"transition applies", 1, true},
		{"status already moved", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectExec("UPDATE settlement_attempts SET(.+)WHERE payment_id = \\$1 AND status = ANY\\(\\$6\\)").
				WithArgs("pid", "SUBMITTED", hash, (*string)(nil), at, []string{"PENDING"}).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			applied, err := NewSettlementAttemptRepo(mock).UpdateStatus(context.Background(), nil, "pid",
				[]domain.AttemptStatus{domain.AttemptStatusPending},
				ports.AttemptUpdate{Status: domain.AttemptStatusSubmitted, SettlementTxHash: hash, At: at})
			require.NoError(t, err)
			assert.Equal(t, tt.want, applied)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSettlementAttemptRepo_ListByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first, second := newTestAttempt(), newTestAttempt()
	first.Status = domain.AttemptStatusSubmitted
	second.PaymentID = "other"
	second.Status = domain.AttemptStatusIndeterminate
	cutoff := time.Date(2026, 1, 10, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery("WHERE status = ANY\\(\\$1\\) AND updated_at < \\$2").
		WithArgs([]string{"SUBMITTED", "INDETERMINATE"}, cutoff, 100).
		WillReturnRows(attemptRows(first, second))

	got, err := NewSettlementAttemptRepo(mock).ListByStatus(context.Background(),
		[]domain.AttemptStatus{domain.AttemptStatusSubmitted, domain.AttemptStatusIndeterminate}, cutoff, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.AttemptStatusIndeterminate, got[1].Status)
}
