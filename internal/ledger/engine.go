// Package ledger implements the balance mutation primitives. They are the
// only code path allowed to change a balance row.
//
// Every primitive takes the caller's transactional executor and becomes part
// of the caller's atomic unit. Each one locks the rows it touches with
// SELECT ... FOR UPDATE before reading them, so concurrent operations on the
// same user serialize on that row while different users proceed in parallel.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/metrics"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/util"
)

// Engine applies credit, debit, lock, unlock and move to the Balance Store.
type Engine struct {
	balances repository.BalanceRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(balances repository.BalanceRepository, m *metrics.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		balances: balances,
		metrics:  m,
		logger:   logger,
	}
}

// Credit adds amount to the user's available balance.
func (e *Engine) Credit(ctx context.Context, q repository.DBExecutor, userID, amount int64) (*domain.Balance, error) {
	return e.apply(ctx, q, "credit", userID, amount, func(b *domain.Balance) error {
		return b.Credit(amount)
	})
}

// Debit removes amount from the user's available balance, failing with
// util.ErrInsufficientFunds if it would go negative.
func (e *Engine) Debit(ctx context.Context, q repository.DBExecutor, userID, amount int64) (*domain.Balance, error) {
	return e.apply(ctx, q, "debit", userID, amount, func(b *domain.Balance) error {
		return b.Debit(amount)
	})
}

// Lock moves amount from available to locked.
func (e *Engine) Lock(ctx context.Context, q repository.DBExecutor, userID, amount int64) (*domain.Balance, error) {
	return e.apply(ctx, q, "lock", userID, amount, func(b *domain.Balance) error {
		return b.Lock(amount)
	})
}

// Unlock releases amount from locked, returning it to available when
// returnToAvailable is true. Releasing more than is locked is a ledger
// invariant violation and fails with util.ErrInvalidState.
func (e *Engine) Unlock(ctx context.Context, q repository.DBExecutor, userID, amount int64, returnToAvailable bool) (*domain.Balance, error) {
	return e.apply(ctx, q, "unlock", userID, amount, func(b *domain.Balance) error {
		return b.Unlock(amount, returnToAvailable)
	})
}

// Move debits fromUserID and credits toUserID inside the caller's transaction.
// Both rows are locked in ascending user id order regardless of direction, so
// two opposite transfers between the same pair cannot deadlock.
func (e *Engine) Move(ctx context.Context, q repository.DBExecutor, fromUserID, toUserID, amount int64) (from, to *domain.Balance, err error) {
	defer func() { e.observe("move", err) }()

	if fromUserID == toUserID {
		return nil, nil, fmt.Errorf("move: %w: sender and receiver are both user %d", util.ErrInvalidAmount, fromUserID)
	}
	if amount <= 0 {
		return nil, nil, fmt.Errorf("move: %w: amount must be positive, got %d", util.ErrInvalidAmount, amount)
	}

	first, second := fromUserID, toUserID
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]*domain.Balance, 2)
	for _, userID := range []int64{first, second} {
		b, err := e.balances.GetBalanceForUpdate(ctx, q, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("move: failed to lock balance for user %d: %w", userID, err)
		}
		locked[userID] = b
	}
	from, to = locked[fromUserID], locked[toUserID]

	if err := from.Debit(amount); err != nil {
		return nil, nil, fmt.Errorf("move: %w", err)
	}
	if err := to.Credit(amount); err != nil {
		return nil, nil, fmt.Errorf("move: %w", err)
	}

	for _, b := range []*domain.Balance{locked[first], locked[second]} {
		if err := e.balances.UpdateBalance(ctx, q, b); err != nil {
			return nil, nil, fmt.Errorf("move: %w", err)
		}
	}
	return from, to, nil
}

func (e *Engine) apply(ctx context.Context, q repository.DBExecutor, op string, userID, amount int64, mutate func(*domain.Balance) error) (balance *domain.Balance, err error) {
	defer func() { e.observe(op, err) }()

	if amount <= 0 {
		return nil, fmt.Errorf("%s: %w: amount must be positive, got %d", op, util.ErrInvalidAmount, amount)
	}

	balance, err = e.balances.GetBalanceForUpdate(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to lock balance for user %d: %w", op, userID, err)
	}
	if err := mutate(balance); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := e.balances.UpdateBalance(ctx, q, balance); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

func (e *Engine) observe(op string, err error) {
	e.metrics.ObserveLedgerOp(op, err)
	if util.IsError(err, util.ErrInvalidState) {
		e.logger.Error("Ledger invariant violated", "op", op, "error", err)
	}
}
