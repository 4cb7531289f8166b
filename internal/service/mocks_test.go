package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/ledger"
	"walpay-wallet/internal/repository"
	"walpay-wallet/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByPhone(ctx context.Context, q repository.DBExecutor, phone string) (*domain.User, error) {
	args := m.Called(ctx, q, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByPhoneOrEmail(ctx context.Context, q repository.DBExecutor, phone, email string) (bool, error) {
	args := m.Called(ctx, q, phone, email)
	return args.Bool(0), args.Error(1)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	args := m.Called(ctx, q, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	args := m.Called(ctx, q, balance)
	return args.Error(0)
}

type MockOnRampRepository struct {
	mock.Mock
}

func (m *MockOnRampRepository) CreateOnRamp(ctx context.Context, q repository.DBExecutor, tx *domain.OnRampTransaction) error {
	args := m.Called(ctx, q, tx)
	return args.Error(0)
}

func (m *MockOnRampRepository) GetOnRampByTokenForUpdate(ctx context.Context, q repository.DBExecutor, token string) (*domain.OnRampTransaction, error) {
	args := m.Called(ctx, q, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnRampTransaction), args.Error(1)
}

func (m *MockOnRampRepository) UpdateOnRampStatus(ctx context.Context, q repository.DBExecutor, tx *domain.OnRampTransaction) error {
	args := m.Called(ctx, q, tx)
	return args.Error(0)
}

func (m *MockOnRampRepository) ListOnRampByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.OnRampTransaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.OnRampTransaction), args.Get(1).(int64), args.Error(2)
}

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	args := m.Called(ctx, q, w)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetWithdrawalByTokenForUpdate(ctx context.Context, q repository.DBExecutor, token string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, q, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	args := m.Called(ctx, q, w)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Withdrawal), args.Get(1).(int64), args.Error(2)
}

type MockP2PTransferRepository struct {
	mock.Mock
}

func (m *MockP2PTransferRepository) CreateP2PTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.P2PTransfer) error {
	args := m.Called(ctx, q, transfer)
	return args.Error(0)
}

func (m *MockP2PTransferRepository) ListP2PTransfersByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.P2PTransfer, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.P2PTransfer), args.Get(1).(int64), args.Error(2)
}

// MockBalanceCache is a mock implementation of cache.BalanceCache.
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Get(ctx context.Context, userID int64) (*domain.Balance, bool) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Balance), args.Bool(1)
}

func (m *MockBalanceCache) Set(ctx context.Context, balance *domain.Balance) {
	m.Called(ctx, balance)
}


// testDeps holds every mock a service test may need.
type testDeps struct {
	beginner    *MockDBBeginner
	reader      *MockDBExecutor
	txc         *MockTxController
	users       *MockUserRepository
	balances    *MockBalanceRepository
	onRamps     *MockOnRampRepository
	withdrawals *MockWithdrawalRepository
	transfers   *MockP2PTransferRepository
	cache       *MockBalanceCache
}

func newTestDeps() *testDeps {
	return &testDeps{
		beginner:    new(MockDBBeginner),
		reader:      new(MockDBExecutor),
		txc:         new(MockTxController),
		users:       new(MockUserRepository),
		balances:    new(MockBalanceRepository),
		onRamps:     new(MockOnRampRepository),
		withdrawals: new(MockWithdrawalRepository),
		transfers:   new(MockP2PTransferRepository),
		cache:       new(MockBalanceCache),
	}
}

func (d *testDeps) txRunner() TxRunner {
	return TxRunner{
		Beginner: d.beginner,
		Reader:   d.reader,
		Begin: func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return d.txc, nil
		},
		Commit: func(tx db.TxController) error {
			return d.txc.Commit()
		},
		Rollback: func(tx db.TxController) {
			_ = d.txc.Rollback()
		},
	}
}

func (d *testDeps) walletDeps() WalletDeps {
	return WalletDeps{
		Users:       d.users,
		Balances:    d.balances,
		OnRamps:     d.onRamps,
		Withdrawals: d.withdrawals,
		Transfers:   d.transfers,
		Cache:       d.cache,
	}
}

func (d *testDeps) engine() *ledger.Engine {
	return ledger.NewEngine(d.balances, nil, nil)
}

func (d *testDeps) assertAll(t mock.TestingT) {
	d.txc.AssertExpectations(t)
	d.users.AssertExpectations(t)
	d.balances.AssertExpectations(t)
	d.onRamps.AssertExpectations(t)
	d.withdrawals.AssertExpectations(t)
	d.transfers.AssertExpectations(t)
	d.cache.AssertExpectations(t)
}
