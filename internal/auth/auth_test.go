package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walpay-wallet/internal/util"
)

func TestIssueAndParseToken(t *testing.T) {
	a := NewAuthenticator("secret", "walpay")

	token, err := a.IssueToken(42, time.Minute)
	require.NoError(t, err)

	userID, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseTokenRejects(t *testing.T) {
	a := NewAuthenticator("secret", "walpay")

	expired, err := a.IssueToken(42, -time.Minute)
	require.NoError(t, err)
	_, err = a.ParseToken(expired)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	foreign, err := NewAuthenticator("other", "walpay").IssueToken(42, time.Minute)
	require.NoError(t, err)
	_, err = a.ParseToken(foreign)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	wrongIssuer, err := NewAuthenticator("secret", "someone-else").IssueToken(42, time.Minute)
	require.NoError(t, err)
	_, err = a.ParseToken(wrongIssuer)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "walpay",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = a.ParseToken(badSubject)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = a.ParseToken("not-a-token")
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator("secret", "walpay")
	var seen int64
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := UserIDFromContext(r.Context())
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := a.IssueToken(7, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), seen)

	for _, header := range []string{"", "Bearer ", "Basic abc", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/me/balance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestWebhookSecret(t *testing.T) {
	h := WebhookSecret("hook")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for secret, want := range map[string]int{
		"hook":  http.StatusOK,
		"hook2": http.StatusUnauthorized,
		"":      http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/deposit", nil)
		req.Header.Set(WebhookSecretHeader, secret)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "secret %q", secret)
	}
}

func TestUserIDFromContextMissing(t *testing.T) {
	_, err := UserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}
