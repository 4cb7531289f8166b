// internal/api/handler/wallet.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"walpay-wallet/internal/api/types"
	"walpay-wallet/internal/auth"
	"walpay-wallet/internal/domain"
	"walpay-wallet/internal/service"
)

// WalletHandler handles the authenticated /me endpoints.
type WalletHandler struct {
	responder
	service service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		responder: newResponder(logger),
		service:   svc,
	}
}

// DepositRequest represents the request body for a deposit. Amounts are rupees.
type DepositRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Provider string          `json:"provider" validate:"required"`
}

// WithdrawalRequest represents the request body for a withdrawal.
type WithdrawalRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Bank          string          `json:"bank" validate:"required"`
	AccountNumber string          `json:"account_number" validate:"required,number,min=9,max=18"`
}

// TransferRequest represents the request body for a P2P transfer.
type TransferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PhoneNumber string          `json:"phone_number" validate:"required,number,len=10"`
}

// HistoryResponse is the combined /me/transactions payload.
type HistoryResponse struct {
	Deposits    types.PaginatedResponse[types.DepositView]    `json:"deposits"`
	Withdrawals types.PaginatedResponse[types.WithdrawalView] `json:"withdrawals"`
	Transfers   types.PaginatedResponse[types.TransferView]   `json:"transfers"`
}

// GetBalance returns the caller's balance.
// GET /me/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewBalanceView(balance))
}

// GetTransactions returns one page of each history kind.
// GET /me/transactions?limit=10&offset=0
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	limit, offset := parsePagination(r)
	ctx := r.Context()

	deposits, depositTotal, err := h.service.GetOnRampTransactions(ctx, userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	withdrawals, withdrawalTotal, err := h.service.GetWithdrawals(ctx, userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	transfers, transferTotal, err := h.service.GetP2PTransfers(ctx, userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, HistoryResponse{
		Deposits:    types.NewPaginatedResponse(deposits, types.NewDepositView, limit, offset, depositTotal),
		Withdrawals: types.NewPaginatedResponse(withdrawals, types.NewWithdrawalView, limit, offset, withdrawalTotal),
		Transfers:   types.NewPaginatedResponse(transfers, types.TransferViewFor(userID), limit, offset, transferTotal),
	})
}

// InitiateDeposit starts an on-ramp and returns the bank redirect.
// POST /me/deposits
func (h *WalletHandler) InitiateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req DepositRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	onRamp, redirectURL, err := h.service.InitiateDeposit(r.Context(), userID, amount, req.Provider)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	view := types.NewDepositView(*onRamp)
	view.RedirectURL = redirectURL
	h.respondWithJSON(w, http.StatusCreated, view)
}

// InitiateWithdrawal locks funds and records a pending payout.
// POST /me/withdrawals
func (h *WalletHandler) InitiateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req WithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	withdrawal, err := h.service.InitiateWithdrawal(r.Context(), userID, amount, req.Bank, req.AccountNumber)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, types.NewWithdrawalView(*withdrawal))
}

// Transfer sends money to the user registered under a phone number.
// POST /me/transfers
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	amount, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	transfer, err := h.service.ExecuteP2PTransfer(r.Context(), userID, req.PhoneNumber, amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, types.TransferViewFor(userID)(*transfer))
}
