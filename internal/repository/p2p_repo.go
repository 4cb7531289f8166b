// internal/repository/p2p_repo.go
package repository

import (
	"context"

	"walpay-wallet/internal/domain"
)

// P2PTransferRepository defines the interface for P2P transfer records.
type P2PTransferRepository interface {
	CreateP2PTransfer(ctx context.Context, q DBExecutor, transfer *domain.P2PTransfer) error
	// ListP2PTransfersByUserID returns transfers the user sent or received, newest first.
	ListP2PTransfersByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.P2PTransfer, int64, error)
}
