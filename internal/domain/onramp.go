// internal/domain/onramp.go
package domain

import "time"

// OnRampStatus is the authoritative lifecycle state of a deposit.
type OnRampStatus string

const (
	OnRampStatusProcessing OnRampStatus = "Processing"
	OnRampStatusSuccess    OnRampStatus = "Success"
	OnRampStatusFailure    OnRampStatus = "Failure"
)

// OnRampTransaction is a deposit from a bank. It is created Processing and
// finalized exactly once by the deposit webhook.
type OnRampTransaction struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"user_id"`
	Provider    string       `db:"provider" json:"provider"`
	Amount      int64        `db:"amount" json:"amount"`
	Token       string       `db:"token" json:"token"`
	Status      OnRampStatus `db:"status" json:"status"`
	StartTime   time.Time    `db:"start_time" json:"start_time"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}

// NewOnRampTransaction creates a Processing deposit.
func NewOnRampTransaction(userID int64, provider string, amount int64, token string) *OnRampTransaction {
	return &OnRampTransaction{
		UserID:    userID,
		Provider:  provider,
		Amount:    amount,
		Token:     token,
		Status:    OnRampStatusProcessing,
		StartTime: time.Now().UTC(),
	}
}
