// internal/repository/postgres/p2p_pg.go
package postgres

import (
	"context"
	"fmt"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/repository"
)

// P2PTransferRepository implements repository.P2PTransferRepository for PostgreSQL.
type P2PTransferRepository struct{}

// NewP2PTransferRepository creates a new P2PTransferRepository.
func NewP2PTransferRepository() repository.P2PTransferRepository {
	return &P2PTransferRepository{}
}

// CreateP2PTransfer inserts a settled transfer record.
func (r *P2PTransferRepository) CreateP2PTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.P2PTransfer) error {
	query := `INSERT INTO p2p_transfers (sender_id, receiver_id, amount, timestamp)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, transfer.SenderID, transfer.ReceiverID, transfer.Amount, transfer.Timestamp).Scan(&transfer.ID)
	if err != nil {
		return fmt.Errorf("failed to create p2p transfer: %w", err)
	}
	return nil
}

// ListP2PTransfersByUserID retrieves a paginated list of transfers where the user
// is either sender or receiver.
func (r *P2PTransferRepository) ListP2PTransfersByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.P2PTransfer, int64, error) {
	transfers := []domain.P2PTransfer{}
	query := `
		SELECT id, sender_id, receiver_id, amount, timestamp
		FROM p2p_transfers
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transfers, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch p2p transfers for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM p2p_transfers WHERE sender_id = $1 OR receiver_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count p2p transfers for user %d: %w", userID, err)
	}

	return transfers, totalCount, nil
}
