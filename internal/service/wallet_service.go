// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"walpay-wallet/internal/cache"
	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/ledger"
	"walpay-wallet/internal/metrics"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/util"
)

const (
	onRampTokenPrefix     = "onr_"
	withdrawalTokenPrefix = "wth_"
)

// WalletService defines the user-initiated money movements and balance views.
type WalletService interface {
	InitiateDeposit(ctx context.Context, userID, amount int64, provider string) (*domain.OnRampTransaction, string, error)
	InitiateWithdrawal(ctx context.Context, userID, amount int64, bank, accountNumber string) (*domain.Withdrawal, error)
	ExecuteP2PTransfer(ctx context.Context, fromUserID int64, toPhoneNumber string, amount int64) (*domain.P2PTransfer, error)
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	GetOnRampTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.OnRampTransaction, int64, error)
	GetWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]domain.Withdrawal, int64, error)
	GetP2PTransfers(ctx context.Context, userID int64, limit, offset int) ([]domain.P2PTransfer, int64, error)
}

type walletService struct {
	tx          TxRunner
	engine      *ledger.Engine
	userRepo    repository.UserRepository
	balanceRepo repository.BalanceRepository
	onRampRepo  repository.OnRampRepository
	withdrawals repository.WithdrawalRepository
	p2pRepo     repository.P2PTransferRepository
	cache       cache.BalanceCache
	policy      domain.Policy
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// WalletDeps groups the collaborators of NewWalletService.
type WalletDeps struct {
	Users       repository.UserRepository
	Balances    repository.BalanceRepository
	OnRamps     repository.OnRampRepository
	Withdrawals repository.WithdrawalRepository
	Transfers   repository.P2PTransferRepository
	Cache       cache.BalanceCache
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(tx TxRunner, engine *ledger.Engine, deps WalletDeps, policy domain.Policy) WalletService {
	if deps.Cache == nil {
		deps.Cache = cache.NopBalanceCache{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &walletService{
		tx:          tx,
		engine:      engine,
		userRepo:    deps.Users,
		balanceRepo: deps.Balances,
		onRampRepo:  deps.OnRamps,
		withdrawals: deps.Withdrawals,
		p2pRepo:     deps.Transfers,
		cache:       deps.Cache,
		policy:      policy,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// InitiateDeposit records a Processing on-ramp for a later bank confirmation.
// The balance is not touched until the deposit webhook succeeds.
func (s *walletService) InitiateDeposit(ctx context.Context, userID, amount int64, provider string) (_ *domain.OnRampTransaction, _ string, err error) {
	defer func() { s.metrics.ObserveTransfer("deposit", err) }()

	if amount < s.policy.DepositMin || amount > s.policy.DepositMax {
		return nil, "", fmt.Errorf("initiate deposit: %w: amount must be between %s and %s",
			util.ErrPolicyViolation, domain.FormatMinorUnits(s.policy.DepositMin), domain.FormatMinorUnits(s.policy.DepositMax))
	}
	if !s.policy.IsSupportedBank(provider) {
		return nil, "", fmt.Errorf("initiate deposit: %w: unsupported bank %q", util.ErrValidation, provider)
	}

	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.tx.Reader, userID)
	if err != nil {
		return nil, "", fmt.Errorf("initiate deposit: failed to get balance for user %d: %w", userID, err)
	}
	if balance.Total() > s.policy.WalletCap-amount {
		return nil, "", fmt.Errorf("initiate deposit: %w: wallet limit of %s would be exceeded",
			util.ErrPolicyViolation, domain.FormatMinorUnits(s.policy.WalletCap))
	}

	onRamp := domain.NewOnRampTransaction(userID, domain.NormalizeBank(provider), amount, onRampTokenPrefix+uuid.NewString())
	if err := s.onRampRepo.CreateOnRamp(ctx, s.tx.Reader, onRamp); err != nil {
		return nil, "", fmt.Errorf("initiate deposit: failed to create on-ramp transaction: %w", err)
	}

	s.logger.Info("Deposit initiated", "user_id", userID, "token", onRamp.Token, "amount", amount)
	return onRamp, domain.BankRedirectURL(provider), nil
}

type withdrawalInput struct {
	Amount        int64  `validate:"gt=0"`
	Bank          string `validate:"required"`
	AccountNumber string `validate:"required,number,min=9,max=18"`
}

// InitiateWithdrawal locks the amount and records a PENDING withdrawal as one unit.
func (s *walletService) InitiateWithdrawal(ctx context.Context, userID, amount int64, bank, accountNumber string) (_ *domain.Withdrawal, err error) {
	defer func() { s.metrics.ObserveTransfer("withdrawal", err) }()

	if err := validate.Struct(withdrawalInput{Amount: amount, Bank: bank, AccountNumber: accountNumber}); err != nil {
		return nil, fmt.Errorf("initiate withdrawal: %w: %s", util.ErrValidation, util.DescribeValidation(err))
	}
	if amount < s.policy.WithdrawalMin {
		return nil, fmt.Errorf("initiate withdrawal: %w: minimum withdrawal is %s",
			util.ErrValidation, domain.FormatMinorUnits(s.policy.WithdrawalMin))
	}
	if !s.policy.IsSupportedBank(bank) {
		return nil, fmt.Errorf("initiate withdrawal: %w: unsupported bank %q", util.ErrValidation, bank)
	}

	withdrawal := domain.NewWithdrawal(userID, amount, domain.NormalizeBank(bank), accountNumber, withdrawalTokenPrefix+uuid.NewString())
	var balance *domain.Balance
	err = s.tx.withTx(ctx, "initiate withdrawal", func(q repository.DBExecutor) error {
		var err error
		if balance, err = s.engine.Lock(ctx, q, userID, amount); err != nil {
			return fmt.Errorf("initiate withdrawal: %w", err)
		}
		if err := s.withdrawals.CreateWithdrawal(ctx, q, withdrawal); err != nil {
			return fmt.Errorf("initiate withdrawal: failed to create withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, balance)
	s.logger.Info("Withdrawal initiated", "user_id", userID, "token", withdrawal.Token, "amount", amount)
	return withdrawal, nil
}

type p2pInput struct {
	Phone string `validate:"required,number,len=10"`
}

// ExecuteP2PTransfer moves amount from the sender to the user owning
// toPhoneNumber and records the transfer in the same unit.
func (s *walletService) ExecuteP2PTransfer(ctx context.Context, fromUserID int64, toPhoneNumber string, amount int64) (_ *domain.P2PTransfer, err error) {
	defer func() { s.metrics.ObserveTransfer("p2p", err) }()

	if amount < s.policy.P2PMin || amount > s.policy.P2PMax {
		return nil, fmt.Errorf("p2p transfer: %w: amount must be between %s and %s",
			util.ErrValidation, domain.FormatMinorUnits(s.policy.P2PMin), domain.FormatMinorUnits(s.policy.P2PMax))
	}
	if err := validate.Struct(p2pInput{Phone: toPhoneNumber}); err != nil {
		return nil, fmt.Errorf("p2p transfer: %w: phone number must be exactly 10 digits", util.ErrValidation)
	}

	recipient, err := s.userRepo.GetUserByPhone(ctx, s.tx.Reader, toPhoneNumber)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("p2p transfer: %w", util.ErrRecipientNotFound)
		}
		return nil, fmt.Errorf("p2p transfer: failed to resolve recipient: %w", err)
	}
	if recipient.ID == fromUserID {
		return nil, fmt.Errorf("p2p transfer: %w", util.ErrSelfTransferNotAllowed)
	}

	transfer := domain.NewP2PTransfer(fromUserID, recipient.ID, amount)
	var from, to *domain.Balance
	err = s.tx.withTx(ctx, "p2p transfer", func(q repository.DBExecutor) error {
		var err error
		if from, to, err = s.engine.Move(ctx, q, fromUserID, recipient.ID, amount); err != nil {
			return fmt.Errorf("p2p transfer: %w", err)
		}
		if err := s.p2pRepo.CreateP2PTransfer(ctx, q, transfer); err != nil {
			return fmt.Errorf("p2p transfer: failed to record transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, from)
	s.cache.Set(ctx, to)
	s.logger.Info("P2P transfer executed", "from_user_id", fromUserID, "to_user_id", recipient.ID, "amount", amount)
	return transfer, nil
}

// GetBalance returns the user's balance, served from the cache when possible.
func (s *walletService) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	if b, ok := s.cache.Get(ctx, userID); ok {
		s.metrics.ObserveCacheLookup(true)
		return b, nil
	}
	s.metrics.ObserveCacheLookup(false)

	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.tx.Reader, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get balance for user %d: %w", userID, err)
	}
	s.cache.Set(ctx, balance)
	return balance, nil
}

func (s *walletService) GetOnRampTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.OnRampTransaction, int64, error) {
	items, total, err := s.onRampRepo.ListOnRampByUserID(ctx, s.tx.Reader, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve on-ramp transactions: %w", err)
	}
	return items, total, nil
}

func (s *walletService) GetWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]domain.Withdrawal, int64, error) {
	items, total, err := s.withdrawals.ListWithdrawalsByUserID(ctx, s.tx.Reader, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve withdrawals: %w", err)
	}
	return items, total, nil
}

// GetP2PTransfers lists transfers the user sent or received, newest first.
func (s *walletService) GetP2PTransfers(ctx context.Context, userID int64, limit, offset int) ([]domain.P2PTransfer, int64, error) {
	items, total, err := s.p2pRepo.ListP2PTransfersByUserID(ctx, s.tx.Reader, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve p2p transfers: %w", err)
	}
	return items, total, nil
}
