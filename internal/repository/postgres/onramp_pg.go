// internal/repository/postgres/onramp_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/util"
)

// OnRampRepository implements repository.OnRampRepository for PostgreSQL.
type OnRampRepository struct{}

// NewOnRampRepository creates a new OnRampRepository.
func NewOnRampRepository() repository.OnRampRepository {
	return &OnRampRepository{}
}

const onRampColumns = `id, user_id, provider, amount, token, status, start_time, completed_at`

// CreateOnRamp inserts a deposit record.
func (r *OnRampRepository) CreateOnRamp(ctx context.Context, q repository.DBExecutor, tx *domain.OnRampTransaction) error {
	query := `INSERT INTO on_ramp_transactions (user_id, provider, amount, token, status, start_time, completed_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		tx.UserID,
		tx.Provider,
		tx.Amount,
		tx.Token,
		tx.Status,
		tx.StartTime,
		tx.CompletedAt,
	).Scan(&tx.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create on-ramp transaction: %w", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create on-ramp transaction: %w", err)
	}
	return nil
}

// GetOnRampByTokenForUpdate retrieves a deposit by its correlation token and locks it.
func (r *OnRampRepository) GetOnRampByTokenForUpdate(ctx context.Context, q repository.DBExecutor, token string) (*domain.OnRampTransaction, error) {
	var tx domain.OnRampTransaction
	query := `SELECT ` + onRampColumns + ` FROM on_ramp_transactions WHERE token = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &tx, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get on-ramp transaction by token: %w", err)
	}
	return &tx, nil
}

// UpdateOnRampStatus persists the status and completion time.
func (r *OnRampRepository) UpdateOnRampStatus(ctx context.Context, q repository.DBExecutor, tx *domain.OnRampTransaction) error {
	query := `UPDATE on_ramp_transactions SET status = $1, completed_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, tx.Status, tx.CompletedAt, tx.ID)
	if err != nil {
		return fmt.Errorf("failed to update on-ramp transaction %d: %w", tx.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating on-ramp transaction %d: %w", tx.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating on-ramp transaction %d: %w", tx.ID, util.ErrNotFound)
	}
	return nil
}

// ListOnRampByUserID returns a page of the user's deposits, newest first, and the total count.
func (r *OnRampRepository) ListOnRampByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.OnRampTransaction, int64, error) {
	transactions := []domain.OnRampTransaction{}
	query := `
		SELECT ` + onRampColumns + `
		FROM on_ramp_transactions
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch on-ramp transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM on_ramp_transactions WHERE user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count on-ramp transactions for user %d: %w", userID, err)
	}

	return transactions, totalCount, nil
}
