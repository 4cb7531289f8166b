// internal/api/handler/webhook.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"walpay-wallet/internal/api/types"
	"walpay-wallet/internal/service"
	"walpay-wallet/internal/util"
)

// WebhookHandler receives bank confirmations. Authentication of the sender
// happens in middleware before these handlers run.
type WebhookHandler struct {
	responder
	service service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(svc service.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		responder: newResponder(logger),
		service:   svc,
	}
}

// DepositWebhookRequest is the bank's deposit confirmation. Amount is paisa
// and may arrive as a JSON number or a numeric string.
type DepositWebhookRequest struct {
	Token          string      `json:"token" validate:"required"`
	UserIdentifier json.Number `json:"user_identifier" validate:"required"`
	Amount         json.Number `json:"amount" validate:"required"`
	Status         string      `json:"status" validate:"omitempty,oneof=SUCCESS FAILED"`
}

// WithdrawalWebhookRequest is the bank's verdict on a payout. Amount is paisa.
type WithdrawalWebhookRequest struct {
	Token           string `json:"token" validate:"required"`
	Status          string `json:"status" validate:"required,oneof=SUCCESS FAILED"`
	BankReferenceID string `json:"bankReferenceId" validate:"max=255"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	FailureReason   string `json:"failureReason" validate:"max=500"`
}

// Deposit finalizes an on-ramp.
// POST /webhooks/deposit
func (h *WebhookHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	userID, err := req.UserIdentifier.Int64()
	if err != nil {
		h.respondWithError(w, fmt.Errorf("%w: user_identifier must be an integer", util.ErrValidation))
		return
	}
	amount, err := req.Amount.Int64()
	if err != nil || amount <= 0 {
		h.respondWithError(w, fmt.Errorf("%w: amount must be a positive integer number of paisa", util.ErrInvalidAmount))
		return
	}

	onRamp, err := h.service.ConfirmDeposit(r.Context(), req.Token, userID, amount, service.WebhookStatus(req.Status))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewDepositView(*onRamp))
}

// Withdrawal finalizes a payout.
// POST /webhooks/withdrawal
func (h *WebhookHandler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	withdrawal, err := h.service.ConfirmWithdrawal(r.Context(), service.WithdrawalConfirmation{
		Token:           req.Token,
		Status:          service.WebhookStatus(req.Status),
		Amount:          req.Amount,
		BankReferenceID: req.BankReferenceID,
		FailureReason:   req.FailureReason,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewWithdrawalView(*withdrawal))
}
