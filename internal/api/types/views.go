// internal/api/types/views.go
package types

import (
	"time"

	"walpay-wallet/internal/domain"
)

// Display labels shown to users. The stored status stays authoritative.
const (
	DisplayPending   = "Pending bank confirmation"
	DisplayCompleted = "Completed"
	DisplayFailed    = "Failed"
)

// OnRampDisplayStatus maps a deposit status to its user-facing label.
func OnRampDisplayStatus(s domain.OnRampStatus) string {
	switch s {
	case domain.OnRampStatusSuccess:
		return DisplayCompleted
	case domain.OnRampStatusFailure:
		return DisplayFailed
	default:
		return DisplayPending
	}
}

// WithdrawalDisplayStatus maps a withdrawal status to its user-facing label.
func WithdrawalDisplayStatus(s domain.WithdrawalStatus) string {
	switch s {
	case domain.WithdrawalStatusCompleted:
		return DisplayCompleted
	case domain.WithdrawalStatusFailed:
		return DisplayFailed
	default:
		return DisplayPending
	}
}

type BalanceView struct {
	Available      string `json:"available"`
	Locked         string `json:"locked"`
	Total          string `json:"total"`
	AvailablePaisa int64  `json:"available_paisa"`
	LockedPaisa    int64  `json:"locked_paisa"`
}

func NewBalanceView(b *domain.Balance) BalanceView {
	return BalanceView{
		Available:      domain.FormatMinorUnits(b.Available),
		Locked:         domain.FormatMinorUnits(b.Locked),
		Total:          domain.FormatMinorUnits(b.Total()),
		AvailablePaisa: b.Available,
		LockedPaisa:    b.Locked,
	}
}

type DepositView struct {
	ID            int64               `json:"id"`
	Token         string              `json:"token"`
	Provider      string              `json:"provider"`
	Amount        string              `json:"amount"`
	AmountPaisa   int64               `json:"amount_paisa"`
	Status        domain.OnRampStatus `json:"status"`
	DisplayStatus string              `json:"display_status"`
	StartTime     time.Time           `json:"start_time"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	RedirectURL   string              `json:"redirect_url,omitempty"`
}

func NewDepositView(t domain.OnRampTransaction) DepositView {
	return DepositView{
		ID:            t.ID,
		Token:         t.Token,
		Provider:      t.Provider,
		Amount:        domain.FormatMinorUnits(t.Amount),
		AmountPaisa:   t.Amount,
		Status:        t.Status,
		DisplayStatus: OnRampDisplayStatus(t.Status),
		StartTime:     t.StartTime,
		CompletedAt:   t.CompletedAt,
	}
}

type WithdrawalView struct {
	ID              int64                   `json:"id"`
	Token           string                  `json:"token"`
	Bank            string                  `json:"bank"`
	AccountNumber   string                  `json:"account_number"`
	Amount          string                  `json:"amount"`
	AmountPaisa     int64                   `json:"amount_paisa"`
	Status          domain.WithdrawalStatus `json:"status"`
	DisplayStatus   string                  `json:"display_status"`
	BankReferenceID *string                 `json:"bank_reference_id,omitempty"`
	FailureReason   *string                 `json:"failure_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func NewWithdrawalView(w domain.Withdrawal) WithdrawalView {
	return WithdrawalView{
		ID:              w.ID,
		Token:           w.Token,
		Bank:            w.Bank,
		AccountNumber:   maskAccount(w.AccountNumber),
		Amount:          domain.FormatMinorUnits(w.Amount),
		AmountPaisa:     w.Amount,
		Status:          w.Status,
		DisplayStatus:   WithdrawalDisplayStatus(w.Status),
		BankReferenceID: w.BankReferenceID,
		FailureReason:   w.FailureReason,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// TransferView describes a P2P transfer from the viewer's side.
type TransferView struct {
	ID             int64     `json:"id"`
	Direction      string    `json:"direction"`
	CounterpartyID int64     `json:"counterparty_id"`
	Amount         string    `json:"amount"`
	AmountPaisa    int64     `json:"amount_paisa"`
	Timestamp      time.Time `json:"timestamp"`
}

// TransferViewFor returns a view func for transfers seen by viewerID.
func TransferViewFor(viewerID int64) func(domain.P2PTransfer) TransferView {
	return func(p domain.P2PTransfer) TransferView {
		v := TransferView{
			ID:             p.ID,
			Direction:      "sent",
			CounterpartyID: p.ReceiverID,
			Amount:         domain.FormatMinorUnits(p.Amount),
			AmountPaisa:    p.Amount,
			Timestamp:      p.Timestamp,
		}
		if p.ReceiverID == viewerID {
			v.Direction = "received"
			v.CounterpartyID = p.SenderID
		}
		return v
	}
}

func maskAccount(n string) string {
	if len(n) <= 4 {
		return n
	}
	masked := make([]byte, len(n))
	for i := range n {
		if i < len(n)-4 {
			masked[i] = 'X'
		} else {
			masked[i] = n[i]
		}
	}
	return string(masked)
}
