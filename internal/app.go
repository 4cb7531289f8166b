// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	router "walpay-wallet/internal/api"
	"walpay-wallet/internal/api/handler"
	"walpay-wallet/internal/auth"
	"walpay-wallet/internal/cache"
	"walpay-wallet/internal/config"
	"walpay-wallet/internal/ledger"
	"walpay-wallet/internal/metrics"
	"walpay-wallet/internal/repository"
	"walpay-wallet/internal/repository/postgres"
	"walpay-wallet/internal/service"
	"walpay-wallet/internal/util"
	"walpay-wallet/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Registry      *prometheus.Registry
	Authenticator *auth.Authenticator

	// Repositories
	UserRepository       repository.UserRepository
	BalanceRepository    repository.BalanceRepository
	OnRampRepository     repository.OnRampRepository
	WithdrawalRepository repository.WithdrawalRepository
	P2PRepository        repository.P2PTransferRepository

	// Services
	Ledger         *ledger.Engine
	WalletService  service.WalletService
	WebhookService service.WebhookService
	UserService    service.UserService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply migrations
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.DB.AutoMigrate {
		if err := db.RunMigrations(app.DB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Logger.Info("Database migrations applied.")
	}

	// 4. Balance cache; runs without Redis when none is configured or reachable
	balanceCache := app.initCache(cfg.Redis)

	// 5. Metrics
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(app.Registry)

	// 6. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.BalanceRepository = postgres.NewBalanceRepository()
	app.OnRampRepository = postgres.NewOnRampRepository()
	app.WithdrawalRepository = postgres.NewWithdrawalRepository()
	app.P2PRepository = postgres.NewP2PTransferRepository()
	app.Logger.Info("Repositories initialized.")

	// 7. Initialize Services
	txRunner := service.NewTxRunner(app.DB)
	app.Ledger = ledger.NewEngine(app.BalanceRepository, m, app.Logger)
	deps := service.WalletDeps{
		Users:       app.UserRepository,
		Balances:    app.BalanceRepository,
		OnRamps:     app.OnRampRepository,
		Withdrawals: app.WithdrawalRepository,
		Transfers:   app.P2PRepository,
		Cache:       balanceCache,
		Metrics:     m,
		Logger:      app.Logger,
	}
	app.WalletService = service.NewWalletService(txRunner, app.Ledger, deps, cfg.Policy)
	app.WebhookService = service.NewWebhookService(txRunner, app.Ledger, deps)
	app.UserService = service.NewUserService(txRunner, app.UserRepository, app.BalanceRepository, app.Logger)
	app.Logger.Info("Services initialized.")

	// 8. Initialize HTTP Handlers and Router
	app.Authenticator = auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Wallet:  handler.NewWalletHandler(app.WalletService, app.Logger),
		Webhook: handler.NewWebhookHandler(app.WebhookService, app.Logger),
		User:    handler.NewUserHandler(app.UserService, app.Logger),
		Metrics: promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
	}, app.Authenticator, cfg.Auth.WebhookSecret, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initCache(cfg cache.Config) cache.BalanceCache {
	if cfg.Addr == "" {
		app.Logger.Info("Redis not configured; balance cache disabled.")
		return cache.NopBalanceCache{}
	}
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		app.Logger.Warn("Redis unavailable; balance cache disabled", "addr", cfg.Addr, "error", err)
		return cache.NopBalanceCache{}
	}
	app.Redis = client
	app.Logger.Info("Redis connection established.", "addr", cfg.Addr)
	return cache.NewRedisBalanceCache(client, cfg, app.Logger)
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}

// IssueToken signs a bearer token for userID. Production tokens come from the
// identity provider; this exists for local tooling and tests.
func (app *Application) IssueToken(userID int64, ttl time.Duration) (string, error) {
	return app.Authenticator.IssueToken(userID, ttl)
}
