// internal/repository/balance_repo.go
package repository

import (
	"context"

	"walpay-wallet/internal/domain"
)

// BalanceRepository is the Balance Store. Only the ledger engine may call
// UpdateBalance, and only on a row it fetched with GetBalanceForUpdate in the
// same transaction.
type BalanceRepository interface {
	CreateBalance(ctx context.Context, q DBExecutor, balance *domain.Balance) error
	// GetBalanceByUserID reads without locking; use it for display only.
	GetBalanceByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// GetBalanceForUpdate reads the row under SELECT ... FOR UPDATE. q must be a transaction.
	GetBalanceForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	UpdateBalance(ctx context.Context, q DBExecutor, balance *domain.Balance) error
}
