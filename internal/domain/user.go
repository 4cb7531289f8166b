// internal/domain/user.go
package domain

import "time"

// User represents a wallet holder.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone"` // Unique, 10 digits
	Email        string    `db:"email" json:"email"` // Unique
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance.
func NewUser(name, phone, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
