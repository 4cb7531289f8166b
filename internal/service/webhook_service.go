// internal/service/webhook_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"walpay-wallet/internal/cache"
	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/ledger"
	"walpay-wallet/internal/metrics"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/util"
)

// WebhookStatus is the outcome reported by the bank.
type WebhookStatus string

const (
	WebhookStatusSuccess WebhookStatus = "SUCCESS"
	WebhookStatusFailed  WebhookStatus = "FAILED"
)

// WithdrawalConfirmation is the bank's verdict on a PENDING withdrawal.
type WithdrawalConfirmation struct {
	Token           string
	Status          WebhookStatus
	Amount          int64
	BankReferenceID string
	FailureReason   string
}

// WebhookService finalizes pending transactions from bank confirmations.
type WebhookService interface {
	ConfirmDeposit(ctx context.Context, token string, userID, amount int64, status WebhookStatus) (*domain.OnRampTransaction, error)
	ConfirmWithdrawal(ctx context.Context, c WithdrawalConfirmation) (*domain.Withdrawal, error)
}

type webhookService struct {
	tx          TxRunner
	engine      *ledger.Engine
	onRampRepo  repository.OnRampRepository
	withdrawals repository.WithdrawalRepository
	cache       cache.BalanceCache
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewWebhookService creates a new instance of WebhookService.
func NewWebhookService(tx TxRunner, engine *ledger.Engine, deps WalletDeps) WebhookService {
	if deps.Cache == nil {
		deps.Cache = cache.NopBalanceCache{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &webhookService{
		tx:          tx,
		engine:      engine,
		onRampRepo:  deps.OnRamps,
		withdrawals: deps.Withdrawals,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

var errReplay = errors.New("replayed confirmation")

// ConfirmDeposit finalizes the on-ramp identified by token. A redelivery of
// the verdict already applied returns the stored row without side effects.
func (s *webhookService) ConfirmDeposit(ctx context.Context, token string, userID, amount int64, status WebhookStatus) (*domain.OnRampTransaction, error) {
	if status == "" {
		status = WebhookStatusSuccess
	}
	if status != WebhookStatusSuccess && status != WebhookStatusFailed {
		s.metrics.ObserveWebhook("deposit", "rejected")
		return nil, fmt.Errorf("confirm deposit: %w: unknown status %q", util.ErrValidation, status)
	}

	var (
		onRamp  *domain.OnRampTransaction
		balance *domain.Balance
	)
	err := s.tx.withTx(ctx, "confirm deposit", func(q repository.DBExecutor) error {
		var err error
		onRamp, err = s.onRampRepo.GetOnRampByTokenForUpdate(ctx, q, token)
		if err != nil {
			return fmt.Errorf("confirm deposit: failed to lock on-ramp %q: %w", token, err)
		}
		if onRamp.UserID != userID {
			return fmt.Errorf("confirm deposit: %w: token %q", util.ErrOwnerMismatch, token)
		}

		switch {
		case onRamp.Status == domain.OnRampStatusSuccess && status == WebhookStatusSuccess,
			onRamp.Status == domain.OnRampStatusFailure && status == WebhookStatusFailed:
			return errReplay
		case onRamp.Status != domain.OnRampStatusProcessing:
			return fmt.Errorf("confirm deposit: %w: token %q is %s", util.ErrAlreadyProcessed, token, onRamp.Status)
		}
		if amount != onRamp.Amount {
			return fmt.Errorf("confirm deposit: %w: got %d, expected %d", util.ErrAmountMismatch, amount, onRamp.Amount)
		}

		now := time.Now().UTC()
		onRamp.CompletedAt = &now
		onRamp.Status = domain.OnRampStatusFailure
		if status == WebhookStatusSuccess {
			if balance, err = s.engine.Credit(ctx, q, userID, amount); err != nil {
				return fmt.Errorf("confirm deposit: %w", err)
			}
			onRamp.Status = domain.OnRampStatusSuccess
		}
		if err := s.onRampRepo.UpdateOnRampStatus(ctx, q, onRamp); err != nil {
			return fmt.Errorf("confirm deposit: failed to update on-ramp status: %w", err)
		}
		return nil
	})
	if errors.Is(err, errReplay) {
		s.metrics.ObserveWebhook("deposit", "replayed")
		s.logger.Info("Deposit confirmation replayed", "token", token, "status", onRamp.Status)
		return onRamp, nil
	}
	if err != nil {
		s.metrics.ObserveWebhook("deposit", "rejected")
		return nil, err
	}

	if balance != nil {
		s.cache.Set(ctx, balance)
	}
	s.metrics.ObserveWebhook("deposit", "applied")
	s.logger.Info("Deposit confirmed", "token", token, "user_id", userID, "status", onRamp.Status)
	return onRamp, nil
}

// ConfirmWithdrawal finalizes a PENDING withdrawal. COMPLETED releases the
// locked funds to the bank; FAILED returns them to available.
func (s *webhookService) ConfirmWithdrawal(ctx context.Context, c WithdrawalConfirmation) (*domain.Withdrawal, error) {
	if c.Status != WebhookStatusSuccess && c.Status != WebhookStatusFailed {
		s.metrics.ObserveWebhook("withdrawal", "rejected")
		return nil, fmt.Errorf("confirm withdrawal: %w: unknown status %q", util.ErrValidation, c.Status)
	}

	var (
		withdrawal *domain.Withdrawal
		balance    *domain.Balance
	)
	err := s.tx.withTx(ctx, "confirm withdrawal", func(q repository.DBExecutor) error {
		var err error
		withdrawal, err = s.withdrawals.GetWithdrawalByTokenForUpdate(ctx, q, c.Token)
		if err != nil {
			return fmt.Errorf("confirm withdrawal: failed to lock withdrawal %q: %w", c.Token, err)
		}
		if withdrawal.Status != domain.WithdrawalStatusPending {
			return fmt.Errorf("confirm withdrawal: %w: token %q is %s", util.ErrAlreadyProcessed, c.Token, withdrawal.Status)
		}
		if c.Amount != withdrawal.Amount {
			return fmt.Errorf("confirm withdrawal: %w: got %d, expected %d", util.ErrAmountMismatch, c.Amount, withdrawal.Amount)
		}

		failed := c.Status == WebhookStatusFailed
		withdrawal.Status = domain.WithdrawalStatusCompleted
		if failed {
			withdrawal.Status = domain.WithdrawalStatusFailed
			if c.FailureReason != "" {
				reason := c.FailureReason
				withdrawal.FailureReason = &reason
			}
		}
		if c.BankReferenceID != "" {
			ref := c.BankReferenceID
			withdrawal.BankReferenceID = &ref
		}
		withdrawal.UpdatedAt = time.Now().UTC()

		if err := s.withdrawals.UpdateWithdrawalStatus(ctx, q, withdrawal); err != nil {
			return fmt.Errorf("confirm withdrawal: failed to update withdrawal status: %w", err)
		}
		if balance, err = s.engine.Unlock(ctx, q, withdrawal.UserID, withdrawal.Amount, failed); err != nil {
			return fmt.Errorf("confirm withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveWebhook("withdrawal", "rejected")
		return nil, err
	}

	s.cache.Set(ctx, balance)
	s.metrics.ObserveWebhook("withdrawal", "applied")
	s.logger.Info("Withdrawal confirmed", "token", c.Token, "user_id", withdrawal.UserID, "status", withdrawal.Status)
	return withdrawal, nil
}
