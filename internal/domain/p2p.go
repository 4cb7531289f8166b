// internal/domain/p2p.go
package domain

import "time"

// P2PTransfer records a settled movement between two users. It is immutable.
type P2PTransfer struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Amount     int64     `db:"amount" json:"amount"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// NewP2PTransfer creates a transfer record stamped now.
func NewP2PTransfer(senderID, receiverID, amount int64) *P2PTransfer {
	return &P2PTransfer{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Timestamp:  time.Now().UTC(),
	}
}
