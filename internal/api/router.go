// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"walpay-wallet/internal/api/handler"
	"walpay-wallet/internal/auth"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Wallet  *handler.WalletHandler
	Webhook *handler.WebhookHandler
	User    *handler.UserHandler
	Metrics http.Handler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, authenticator *auth.Authenticator, webhookSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Post("/users", h.User.Register)

	r.Route("/me", func(r chi.Router) {
		r.Use(authenticator.Middleware)
		r.Get("/", h.User.Profile)
		r.Get("/balance", h.Wallet.GetBalance)
		r.Get("/transactions", h.Wallet.GetTransactions)
		r.Post("/deposits", h.Wallet.InitiateDeposit)
		r.Post("/withdrawals", h.Wallet.InitiateWithdrawal)
		r.Post("/transfers", h.Wallet.Transfer)
	})

	// Bank callbacks authenticate with a shared secret instead of a user token.
	r.Route("/webhooks", func(r chi.Router) {
		r.Use(auth.WebhookSecret(webhookSecret))
		r.Post("/deposit", h.Webhook.Deposit)
		r.Post("/withdrawal", h.Webhook.Withdrawal)
	})

	logger.Debug("Routes registered")
	return r
}
