// Package auth verifies the bearer tokens issued by the identity provider and
// the shared secret carried by bank webhooks.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"walpay-wallet/internal/util"
)

// WebhookSecretHeader carries the secret shared with the banks.
const WebhookSecretHeader = "X-Webhook-Secret"

type contextKey struct{}

// Authenticator issues and verifies HS256 tokens whose subject is the user id.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// IssueToken signs a token for userID valid for ttl.
func (a *Authenticator) IssueToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates raw and returns the user id in its subject.
func (a *Authenticator) ParseToken(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrUnauthorized, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: invalid subject %q", util.ErrUnauthorized, claims.Subject)
	}
	return userID, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// user id in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			unauthorized(w, "missing bearer token")
			return
		}
		userID, err := a.ParseToken(raw)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WebhookSecret rejects requests whose X-Webhook-Secret does not match secret.
func WebhookSecret(secret string) func(http.Handler) http.Handler {
	expected := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(WebhookSecretHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				unauthorized(w, "invalid webhook secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(contextKey{}).(int64)
	if !ok {
		return 0, errors.Join(util.ErrUnauthorized, errors.New("no user in context"))
	}
	return userID, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
