// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"walpay-wallet/internal/api/types"
	"walpay-wallet/internal/auth"
	"walpay-wallet/internal/service"
)

// UserHandler handles registration and the profile view.
type UserHandler struct {
	responder
	service service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		responder: newResponder(logger),
		service:   svc,
	}
}

// RegisterRequest carries the new user's details. Field rules are enforced by
// UserService.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Balance   types.BalanceView `json:"balance"`
	CreatedAt time.Time         `json:"created_at"`
}

// Register creates a user with an empty wallet.
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, balance, err := h.service.Register(r.Context(), service.Registration{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, RegisterResponse{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		Balance:   types.NewBalanceView(balance),
		CreatedAt: user.CreatedAt,
	})
}

// ProfileResponse is the signed-in user's profile.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the authenticated user's details.
// GET /me
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
