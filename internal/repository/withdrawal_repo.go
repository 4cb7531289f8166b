// internal/repository/withdrawal_repo.go
package repository

import (
	"context"

	"walpay-wallet/internal/domain"
)

// WithdrawalRepository defines the interface for withdrawal records.
type WithdrawalRepository interface {
	CreateWithdrawal(ctx context.Context, q DBExecutor, w *domain.Withdrawal) error
	// GetWithdrawalByTokenForUpdate locks the row so concurrent webhook deliveries serialize.
	GetWithdrawalByTokenForUpdate(ctx context.Context, q DBExecutor, token string) (*domain.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, q DBExecutor, w *domain.Withdrawal) error
	ListWithdrawalsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, int64, error)
}
