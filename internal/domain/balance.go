// internal/domain/balance.go
package domain

import (
	"fmt"
	"math"
	"time"

	"walpay-wallet/internal/util"
)

// Balance is the per-user ledger row. Amounts are in minor units (paisa).
// Available and Locked are never negative; the methods below refuse any
// change that would break that and leave the receiver untouched on error.
// Version grows by one with every change and orders cached copies.
type Balance struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Available int64     `db:"available" json:"available"`
	Locked    int64     `db:"locked" json:"locked"`
	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewBalance creates a zeroed balance for userID.
func NewBalance(userID int64) *Balance {
	now := time.Now().UTC()
	return &Balance{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total is available plus locked.
func (b *Balance) Total() int64 {
	return b.Available + b.Locked
}

// Credit adds amount to the available balance.
func (b *Balance) Credit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive, got %d", util.ErrInvalidAmount, amount)
	}
	if b.Available > math.MaxInt64-amount {
		return fmt.Errorf("%w: credit of %d overflows available balance", util.ErrInvalidAmount, amount)
	}
	b.Available += amount
	b.touch()
	return nil
}

// Debit removes amount from the available balance.
func (b *Balance) Debit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive, got %d", util.ErrInvalidAmount, amount)
	}
	if b.Available < amount {
		return util.ErrInsufficientFunds
	}
	b.Available -= amount
	b.touch()
	return nil
}

// Lock moves amount from available to locked.
func (b *Balance) Lock(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: lock amount must be positive, got %d", util.ErrInvalidAmount, amount)
	}
	if b.Available < amount {
		return util.ErrInsufficientFunds
	}
	b.Available -= amount
	b.Locked += amount
	b.touch()
	return nil
}

// Unlock releases amount from locked, returning it to available when
// returnToAvailable is set.
func (b *Balance) Unlock(amount int64, returnToAvailable bool) error {
	if amount <= 0 {
		return fmt.Errorf("%w: unlock amount must be positive, got %d", util.ErrInvalidAmount, amount)
	}
	if b.Locked < amount {
		return fmt.Errorf("%w: unlock of %d exceeds locked balance %d for user %d", util.ErrInvalidState, amount, b.Locked, b.UserID)
	}
	if returnToAvailable && b.Available > math.MaxInt64-amount {
		return fmt.Errorf("%w: unlock of %d overflows available balance", util.ErrInvalidState, amount)
	}
	b.Locked -= amount
	if returnToAvailable {
		b.Available += amount
	}
	b.touch()
	return nil
}

func (b *Balance) touch() {
	b.Version++
	b.UpdatedAt = time.Now().UTC()
}
