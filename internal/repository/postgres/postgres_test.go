package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/util"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()
	ctx := context.Background()
	user := domain.NewUser("Asha", "9876543210", "asha@example.com", "hash")

	mock.ExpectQuery(`INSERT INTO users \(name, phone, email, password_hash, created_at, updated_at\)`).
		WithArgs("Asha", "9876543210", "asha@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, repo.CreateUser(ctx, db, user))
	assert.Equal(t, int64(42), user.ID)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateUser(ctx, db, domain.NewUser("Asha", "9876543210", "asha@example.com", "hash"))
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByPhone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE phone = \$1`).
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(3, "Ravi", "9876543210", "ravi@example.com", "hash", now, now))

	user, err := repo.GetUserByPhone(ctx, db, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Ravi", user.Name)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE phone = \$1`).
		WithArgs("0000000000").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByPhone(ctx, db, "0000000000")
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByPhoneOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("9876543210", "a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByPhoneOrEmail(context.Background(), db, "9876543210", "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func balanceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "available", "locked", "version", "created_at", "updated_at"})
}

func TestBalanceRepository_GetBalanceForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM balances WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(balanceRows().AddRow(1, 5, 1000, 200, 4, now, now))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	balance, err := repo.GetBalanceForUpdate(ctx, tx, 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(1000), balance.Available)
	assert.Equal(t, int64(200), balance.Locked)
	assert.Equal(t, int64(4), balance.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepository_GetBalanceNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepository()

	mock.ExpectQuery(`SELECT (.+) FROM balances WHERE user_id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBalanceByUserID(context.Background(), db, 9)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepository_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepository()
	ctx := context.Background()
	balance := &domain.Balance{UserID: 5, Available: 700, Locked: 300, Version: 8, UpdatedAt: time.Now().UTC()}

	mock.ExpectExec(`UPDATE balances SET available = \$1, locked = \$2, version = \$3, updated_at = \$4 WHERE user_id = \$5`).
		WithArgs(int64(700), int64(300), int64(8), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateBalance(ctx, db, balance))

	mock.ExpectExec(`UPDATE balances`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateBalance(ctx, db, balance), util.ErrNotFound)

	mock.ExpectExec(`UPDATE balances`).
		WillReturnError(errors.New("new row violates check constraint"))
	assert.Error(t, repo.UpdateBalance(ctx, db, balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnRampRepository_CreateAndLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOnRampRepository()
	ctx := context.Background()
	tx := domain.NewOnRampTransaction(5, "HDFC", 500000, "onr_abc")

	mock.ExpectQuery(`INSERT INTO on_ramp_transactions`).
		WithArgs(int64(5), "HDFC", int64(500000), "onr_abc", domain.OnRampStatusProcessing, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	require.NoError(t, repo.CreateOnRamp(ctx, db, tx))
	assert.Equal(t, int64(11), tx.ID)

	mock.ExpectQuery(`SELECT (.+) FROM on_ramp_transactions WHERE token = \$1 FOR UPDATE`).
		WithArgs("onr_abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "provider", "amount", "token", "status", "start_time", "completed_at"}).
			AddRow(11, 5, "HDFC", 500000, "onr_abc", "Processing", tx.StartTime, nil))

	got, err := repo.GetOnRampByTokenForUpdate(ctx, db, "onr_abc")
	require.NoError(t, err)
	assert.Equal(t, domain.OnRampStatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)

	mock.ExpectQuery(`SELECT (.+) FROM on_ramp_transactions WHERE token = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetOnRampByTokenForUpdate(ctx, db, "missing")
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnRampRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOnRampRepository()
	completed := time.Now().UTC()
	tx := &domain.OnRampTransaction{ID: 11, Status: domain.OnRampStatusSuccess, CompletedAt: &completed}

	mock.ExpectExec(`UPDATE on_ramp_transactions SET status = \$1, completed_at = \$2 WHERE id = \$3`).
		WithArgs(domain.OnRampStatusSuccess, sqlmock.AnyArg(), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateOnRampStatus(context.Background(), db, tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnRampRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOnRampRepository()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM on_ramp_transactions WHERE user_id = \$1 ORDER BY start_time DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(5), 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "provider", "amount", "token", "status", "start_time", "completed_at"}).
			AddRow(2, 5, "SBI", 60000, "onr_2", "Success", now, now).
			AddRow(1, 5, "HDFC", 50000, "onr_1", "Processing", now.Add(-time.Hour), nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM on_ramp_transactions WHERE user_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	list, total, err := repo.ListOnRampByUserID(context.Background(), db, 5, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(2), total)
	assert.NotNil(t, list[0].CompletedAt)
	assert.Nil(t, list[1].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepository_CreateAndUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWithdrawalRepository()
	ctx := context.Background()
	w := domain.NewWithdrawal(5, 50000, "HDFC", "123456789", "wth_abc")

	mock.ExpectQuery(`INSERT INTO withdrawals`).
		WithArgs(int64(5), int64(50000), "HDFC", "123456789", "wth_abc", domain.WithdrawalStatusPending, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	require.NoError(t, repo.CreateWithdrawal(ctx, db, w))
	assert.Equal(t, int64(21), w.ID)

	ref := "HDFC-REF-1"
	w.Status = domain.WithdrawalStatusCompleted
	w.BankReferenceID = &ref
	mock.ExpectExec(`UPDATE withdrawals`).
		WithArgs(domain.WithdrawalStatusCompleted, &ref, nil, sqlmock.AnyArg(), int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateWithdrawalStatus(ctx, db, w))

	mock.ExpectQuery(`INSERT INTO withdrawals`).
		WillReturnError(&pq.Error{Code: "23505"})
	err := repo.CreateWithdrawal(ctx, db, domain.NewWithdrawal(5, 50000, "HDFC", "123456789", "wth_abc"))
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepository_GetByTokenForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWithdrawalRepository()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM withdrawals WHERE token = \$1 FOR UPDATE`).
		WithArgs("wth_abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "bank", "account_number", "token", "status", "bank_reference_id", "failure_reason", "created_at", "updated_at"}).
			AddRow(21, 5, 50000, "HDFC", "123456789", "wth_abc", "PENDING", nil, nil, now, now))

	w, err := repo.GetWithdrawalByTokenForUpdate(context.Background(), db, "wth_abc")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusPending, w.Status)
	assert.Equal(t, int64(50000), w.Amount)
	assert.Nil(t, w.BankReferenceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestP2PTransferRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewP2PTransferRepository()
	ctx := context.Background()
	transfer := domain.NewP2PTransfer(1, 2, 30000)

	mock.ExpectQuery(`INSERT INTO p2p_transfers \(sender_id, receiver_id, amount, timestamp\)`).
		WithArgs(int64(1), int64(2), int64(30000), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	require.NoError(t, repo.CreateP2PTransfer(ctx, db, transfer))
	assert.Equal(t, int64(7), transfer.ID)

	mock.ExpectQuery(`SELECT (.+) FROM p2p_transfers WHERE sender_id = \$1 OR receiver_id = \$1`).
		WithArgs(int64(2), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "amount", "timestamp"}).
			AddRow(7, 1, 2, 30000, transfer.Timestamp))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM p2p_transfers`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.ListP2PTransfersByUserID(ctx, db, 2, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), list[0].SenderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
