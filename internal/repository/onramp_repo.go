// internal/repository/onramp_repo.go
package repository

import (
	"context"

	"walpay-wallet/internal/domain"
)

// OnRampRepository defines the interface for deposit records.
type OnRampRepository interface {
	CreateOnRamp(ctx context.Context, q DBExecutor, tx *domain.OnRampTransaction) error
	// GetOnRampByTokenForUpdate locks the row so concurrent webhook deliveries serialize.
	GetOnRampByTokenForUpdate(ctx context.Context, q DBExecutor, token string) (*domain.OnRampTransaction, error)
	UpdateOnRampStatus(ctx context.Context, q DBExecutor, tx *domain.OnRampTransaction) error
	ListOnRampByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.OnRampTransaction, int64, error)
}
