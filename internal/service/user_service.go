// internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/util"
)

// Registration is the input of UserService.Register.
type Registration struct {
	Name     string `validate:"required,min=2,max=50"`
	Phone    string `validate:"required,number,len=10"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=20"`
}

// UserService manages wallet holders.
type UserService interface {
	Register(ctx context.Context, r Registration) (*domain.User, *domain.Balance, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

type userService struct {
	tx          TxRunner
	userRepo    repository.UserRepository
	balanceRepo repository.BalanceRepository
	bcryptCost  int
	logger      *slog.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(tx TxRunner, users repository.UserRepository, balances repository.BalanceRepository, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		tx:          tx,
		userRepo:    users,
		balanceRepo: balances,
		bcryptCost:  bcrypt.DefaultCost,
		logger:      logger,
	}
}

// Register creates the user and a zero balance in one unit.
func (s *userService) Register(ctx context.Context, r Registration) (*domain.User, *domain.Balance, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validate.Struct(r); err != nil {
		return nil, nil, fmt.Errorf("register: %w: %s", util.ErrValidation, util.DescribeValidation(err))
	}
	if !isStrongPassword(r.Password) {
		return nil, nil, fmt.Errorf("register: %w: password needs an uppercase letter, a lowercase letter, a digit and a special character", util.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(r.Name, r.Phone, r.Email, string(hash))
	var balance *domain.Balance
	err = s.tx.withTx(ctx, "register", func(q repository.DBExecutor) error {
		exists, err := s.userRepo.ExistsByPhoneOrEmail(ctx, q, r.Phone, r.Email)
		if err != nil {
			return fmt.Errorf("register: failed to check existing user: %w", err)
		}
		if exists {
			return fmt.Errorf("register: %w: phone or email already registered", util.ErrDuplicateEntry)
		}
		if err := s.userRepo.CreateUser(ctx, q, user); err != nil {
			return fmt.Errorf("register: failed to create user: %w", err)
		}
		balance = domain.NewBalance(user.ID)
		if err := s.balanceRepo.CreateBalance(ctx, q, balance); err != nil {
			return fmt.Errorf("register: failed to create balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, balance, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.tx.Reader, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

func isStrongPassword(p string) bool {
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
