package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_BeginSetsLockTimeout(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout = '5000ms'").
		WillReturnResult(pgxmock.NewResult("SET", 0))
	mock.ExpectCommit()

	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err = NewTransactor(mock).Begin(context.Background())
	assert.ErrorContains(t, err, "beginning transaction")
}

func TestTransactor_LockTimeoutFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	_, err = NewTransactor(mock).Begin(context.Background())
	assert.ErrorContains(t, err, "setting lock timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
