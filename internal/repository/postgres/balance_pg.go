// internal/repository/postgres/balance_pg.go
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

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct{}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository() repository.BalanceRepository {
	return &BalanceRepository{}
}

const balanceColumns = `id, user_id, available, locked, version, created_at, updated_at`

// CreateBalance inserts the balance row for a new user.
func (r *BalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `INSERT INTO balances (user_id, available, locked, version, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query, balance.UserID, balance.Available, balance.Locked, balance.Version, balance.CreatedAt, balance.UpdatedAt).Scan(&balance.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create balance for user %d: %w", balance.UserID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create balance for user %d: %w", balance.UserID, err)
	}
	return nil
}

// GetBalanceByUserID retrieves a user's balance without taking a row lock.
func (r *BalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	return r.get(ctx, q, `SELECT `+balanceColumns+` FROM balances WHERE user_id = $1`, userID)
}

// GetBalanceForUpdate retrieves a user's balance and holds an exclusive row
// lock on it until the surrounding transaction ends.
func (r *BalanceRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	return r.get(ctx, q, `SELECT `+balanceColumns+` FROM balances WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *BalanceRepository) get(ctx context.Context, q repository.DBExecutor, query string, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	if err := q.GetContext(ctx, &balance, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// UpdateBalance writes back both amounts of a row previously read with GetBalanceForUpdate.
func (r *BalanceRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `UPDATE balances SET available = $1, locked = $2, version = $3, updated_at = $4 WHERE user_id = $5`
	result, err := q.ExecContext(ctx, query, balance.Available, balance.Locked, balance.Version, balance.UpdatedAt, balance.UserID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", balance.UserID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balance for user %d: %w", balance.UserID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating balance for user %d: %w", balance.UserID, util.ErrNotFound)
	}
	return nil
}
