// internal/repository/user_repo.go
package repository

import (
	"context"

	"walpay-wallet/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts a user and sets its ID.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByPhone resolves a phone number to its user, or util.ErrNotFound.
	GetUserByPhone(ctx context.Context, q DBExecutor, phone string) (*domain.User, error)
	ExistsByPhoneOrEmail(ctx context.Context, q DBExecutor, phone, email string) (bool, error)
}
