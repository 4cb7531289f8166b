// internal/domain/withdrawal.go
package domain

import "time"

// WithdrawalStatus is the authoritative lifecycle state of a withdrawal.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalStatusFailed    WithdrawalStatus = "FAILED"
)

// Withdrawal is a payout to a bank account. Its amount stays locked in the
// owner's balance while the withdrawal is PENDING.
type Withdrawal struct {
	ID              int64            `db:"id" json:"id"`
	UserID          int64            `db:"user_id" json:"user_id"`
	Amount          int64            `db:"amount" json:"amount"`
	Bank            string           `db:"bank" json:"bank"`
	AccountNumber   string           `db:"account_number" json:"account_number"`
	Token           string           `db:"token" json:"token"`
	Status          WithdrawalStatus `db:"status" json:"status"`
	BankReferenceID *string          `db:"bank_reference_id" json:"bank_reference_id,omitempty"`
	FailureReason   *string          `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// NewWithdrawal creates a PENDING withdrawal.
func NewWithdrawal(userID, amount int64, bank, accountNumber, token string) *Withdrawal {
	now := time.Now().UTC()
	return &Withdrawal{
		UserID:        userID,
		Amount:        amount,
		Bank:          bank,
		AccountNumber: accountNumber,
		Token:         token,
		Status:        WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
