package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-only-32-bytes"

func requestWith(header, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if header != "" {
		r.Header.Set(header, value)
	}
	return r
}

func TestTokenAuthenticatorRoundTrip(t *testing.T) {
	auth := NewTokenAuthenticator(testSecret, "mealplan", time.Hour)

	token, expiresAt, err := auth.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := auth.Authenticate(requestWith("Authorization", "Bearer "+token))
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	id, err = auth.Authenticate(requestWith("Authorization", "bearer  "+token))
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestTokenAuthenticatorRejects(t *testing.T) {
	auth := NewTokenAuthenticator(testSecret, "mealplan", time.Hour)
	valid, _, err := auth.Issue(7)
	require.NoError(t, err)

	other, _, err := NewTokenAuthenticator(testSecret, "someone-else", time.Hour).Issue(7)
	require.NoError(t, err)

	forged, _, err := NewTokenAuthenticator("another-secret-key-that-is-32-bytes!", "mealplan", time.Hour).Issue(7)
	require.NoError(t, err)

	expiring := NewTokenAuthenticator(testSecret, "mealplan", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := expiring.Issue(7)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", ErrMissingCredentials},
		{"wrong scheme", "Basic " + valid, ErrInvalidCredentials},
		{"no token", "Bearer", ErrInvalidCredentials},
		{"garbage", "Bearer not-a-jwt", ErrInvalidCredentials},
		{"wrong issuer", "Bearer " + other, ErrInvalidCredentials},
		{"wrong secret", "Bearer " + forged, ErrInvalidCredentials},
		{"expired", "Bearer " + expired, ErrInvalidCredentials},
		{"alg none", "Bearer " + unsigned, ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requestWith("", "")
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := auth.Authenticate(r)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenAuthenticatorWebsocketQuery(t *testing.T) {
	auth := NewTokenAuthenticator(testSecret, "mealplan", time.Hour)
	token, _, err := auth.Issue(5)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/users/me/plan-events?access_token="+token, nil)
	_, err = auth.Authenticate(r)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	id, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.EqualValues(t, 5, id)
}

func TestHeaderAuthenticator(t *testing.T) {
	auth := NewHeaderAuthenticator("")

	id, err := auth.Authenticate(requestWith("X-User-Id", " 12 "))
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	_, err = auth.Authenticate(requestWith("", ""))
	assert.ErrorIs(t, err, ErrMissingCredentials)

	for _, bad := range []string{"0", "-3", "abc", "1.5"} {
		_, err = auth.Authenticate(requestWith("X-User-Id", bad))
		assert.ErrorIs(t, err, ErrInvalidCredentials, bad)
	}
}

func TestNewAuthenticator(t *testing.T) {
	a, err := NewAuthenticator(config.AuthConfig{Mode: config.AuthModeToken, JWTSecret: testSecret, TokenTTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &TokenAuthenticator{}, a)

	a, err = NewAuthenticator(config.AuthConfig{Mode: config.AuthModeHeader, HeaderName: "X-Debug-User"})
	require.NoError(t, err)
	assert.IsType(t, &HeaderAuthenticator{}, a)

	_, err = NewAuthenticator(config.AuthConfig{Mode: "oauth"})
	assert.Error(t, err)
}
