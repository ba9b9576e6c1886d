package postgres

import (
	"context"
	"testing"
	"time"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReferrer = "0x2222222222222222222222222222222222222222"

func referralLinkRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "referrer", "referred", "bonus_amount", "created_at"})
}

func referralPurchaseRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"link_id", "amount", "bonus", "created_at"})
}

func TestReferralRepo_CreateIfAbsent_Created(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	link := &domain.ReferralLink{
		ID: uuid.New(), Referrer: testReferrer, Referred: testWallet,
		BonusAmount: decimal.Zero, Timestamp: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO referral_links(.+)ON CONFLICT \\(referrer, referred\\) DO NOTHING").
		WithArgs(link.ID, link.Referrer, link.Referred, link.BonusAmount, link.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	got, created, err := NewReferralRepo(mock).CreateIfAbsent(context.Background(), nil, link)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, link.ID, got.ID)
	assert.NotNil(t, got.Purchases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_CreateIfAbsent_ReturnsExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	existingID := uuid.New()
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	bought := created.Add(time.Hour)

	link := &domain.ReferralLink{ID: uuid.New(), Referrer: testReferrer, Referred: testWallet, BonusAmount: decimal.Zero, Timestamp: time.Now().UTC()}
	mock.ExpectExec("INSERT INTO referral_links").
		WithArgs(link.ID, link.Referrer, link.Referred, link.BonusAmount, link.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("FROM referral_links\\s+WHERE referrer = \\$1 AND referred = \\$2").
		WithArgs(testReferrer, testWallet).
		WillReturnRows(referralLinkRows().AddRow(existingID, testReferrer, testWallet, decimal.NewFromInt(2), created))
	mock.ExpectQuery("FROM referral_purchases").
		WithArgs([]string{existingID.String()}).
		WillReturnRows(referralPurchaseRows().AddRow(existingID, decimal.NewFromInt(20), decimal.NewFromInt(2), bought))

	got, wasCreated, err := NewReferralRepo(mock).CreateIfAbsent(context.Background(), nil, link)
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, existingID, got.ID)
	require.Len(t, got.Purchases, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(got.BonusAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_GetByPair_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM referral_links").
		WithArgs(testReferrer, testWallet).
		WillReturnError(pgx.ErrNoRows)

	got, err := NewReferralRepo(mock).GetByPair(context.Background(), testReferrer, testWallet)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_AddPurchase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	linkID := uuid.New()
	p := domain.ReferralPurchase{Amount: decimal.NewFromInt(20), Bonus: decimal.NewFromInt(1), Timestamp: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO referral_purchases").
		WithArgs(linkID, p.Amount, p.Bonus, p.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE referral_links SET bonus_amount = bonus_amount \\+ \\$2").
		WithArgs(linkID, p.Bonus).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, NewReferralRepo(mock).AddPurchase(context.Background(), tx, linkID, p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_AddPurchase_MissingLink(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	linkID := uuid.New()
	p := domain.ReferralPurchase{Amount: decimal.NewFromInt(20), Bonus: decimal.NewFromInt(1), Timestamp: time.Now().UTC()}
	mock.ExpectExec("INSERT INTO referral_purchases").
		WithArgs(linkID, p.Amount, p.Bonus, p.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE referral_links").
		WithArgs(linkID, p.Bonus).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewReferralRepo(mock).AddPurchase(context.Background(), nil, linkID, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_ListByReferrer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a, b := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM referral_links\\s+WHERE referrer = \\$1 ORDER BY created_at").
		WithArgs(testReferrer).
		WillReturnRows(referralLinkRows().
			AddRow(a, testReferrer, testWallet, decimal.NewFromInt(3), base).
			AddRow(b, testReferrer, "0x4444444444444444444444444444444444444444", decimal.Zero, base.Add(time.Hour)))
	mock.ExpectQuery("FROM referral_purchases").
		WithArgs([]string{a.String(), b.String()}).
		WillReturnRows(referralPurchaseRows().
			AddRow(a, decimal.NewFromInt(20), decimal.NewFromInt(1), base.Add(time.Minute)).
			AddRow(a, decimal.NewFromInt(40), decimal.NewFromInt(2), base.Add(2*time.Minute)))

	links, err := NewReferralRepo(mock).ListByReferrer(context.Background(), testReferrer)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Len(t, links[0].Purchases, 2)
	assert.NotNil(t, links[1].Purchases)
	assert.Empty(t, links[1].Purchases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_ListByReferrer_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM referral_links").
		WithArgs(testReferrer).
		WillReturnRows(referralLinkRows())

	links, err := NewReferralRepo(mock).ListByReferrer(context.Background(), testReferrer)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.NoError(t, mock.ExpectationsWereMet())
}
