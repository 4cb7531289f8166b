// internal/repository/postgres/user_pg.go
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

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

const userColumns = `id, name, phone, email, password_hash, created_at, updated_at`

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (name, phone, email, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query, user.Name, user.Phone, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := q.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone number using the provided DBExecutor.
func (r *UserRepository) GetUserByPhone(ctx context.Context, q repository.DBExecutor, phone string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	if err := q.GetContext(ctx, &user, query, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return &user, nil
}

// ExistsByPhoneOrEmail reports whether either identifier is already registered.
func (r *UserRepository) ExistsByPhoneOrEmail(ctx context.Context, q repository.DBExecutor, phone, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1 OR email = $2)`
	if err := q.GetContext(ctx, &exists, query, phone, email); err != nil {
		return false, fmt.Errorf("failed to check existing user: %w", err)
	}
	return exists, nil
}
