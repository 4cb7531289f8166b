// internal/repository/postgres/withdrawal_pg.go
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

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository() repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

const withdrawalColumns = `id, user_id, amount, bank, account_number, token, status, bank_reference_id, failure_reason, created_at, updated_at`

// CreateWithdrawal inserts a withdrawal record.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (user_id, amount, bank, account_number, token, status, bank_reference_id, failure_reason, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		w.UserID,
		w.Amount,
		w.Bank,
		w.AccountNumber,
		w.Token,
		w.Status,
		w.BankReferenceID,
		w.FailureReason,
		w.CreatedAt,
		w.UpdatedAt,
	).Scan(&w.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create withdrawal: %w", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

// GetWithdrawalByTokenForUpdate retrieves a withdrawal by its correlation token and locks it.
func (r *WithdrawalRepository) GetWithdrawalByTokenForUpdate(ctx context.Context, q repository.DBExecutor, token string) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE token = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &w, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal by token: %w", err)
	}
	return &w, nil
}

// UpdateWithdrawalStatus persists the status, bank reference, failure reason and update time.
func (r *WithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	query := `UPDATE withdrawals
              SET status = $1, bank_reference_id = $2, failure_reason = $3, updated_at = $4
              WHERE id = $5`
	result, err := q.ExecContext(ctx, query, w.Status, w.BankReferenceID, w.FailureReason, w.UpdatedAt, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %d: %w", w.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating withdrawal %d: %w", w.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating withdrawal %d: %w", w.ID, util.ErrNotFound)
	}
	return nil
}

// ListWithdrawalsByUserID returns a page of the user's withdrawals, newest first, and the total count.
func (r *WithdrawalRepository) ListWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, int64, error) {
	withdrawals := []domain.Withdrawal{}
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &withdrawals, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch withdrawals for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM withdrawals WHERE user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals for user %d: %w", userID, err)
	}

	return withdrawals, totalCount, nil
}
