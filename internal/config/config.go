// internal/config/config.go
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"walpay-wallet/internal/cache"
	"walpay-wallet/internal/domain"
	"walpay-wallet/pkg/db"
)

// AuthConfig holds the shared secrets of the identity provider and the bank webhooks.
type AuthConfig struct {
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer     string `envconfig:"JWT_ISSUER" default:"walpay"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET" required:"true"`
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string        `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`
	DB         db.Config     `envconfig:"DB"`
	Redis      cache.Config  `envconfig:"REDIS"`
	Auth       AuthConfig    `envconfig:"AUTH"`
	Policy     domain.Policy `envconfig:"POLICY"`
}

// LoadConfig loads configuration from a .env file, if present, and the
// environment. Variables already set in the environment take precedence.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.Auth.JWTSecret == "" || cfg.Auth.WebhookSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET and AUTH_WEBHOOK_SECRET must not be empty")
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return &cfg, nil
}
