// Package security resolves request identities
package security

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokensDisabled     = errors.New("token issuance is disabled")
)

// Authenticator resolves the caller of a request to a user id
type Authenticator interface {
	Authenticate(r *http.Request) (uint, error)
}

// TokenIssuer mints credentials for a verified user
type TokenIssuer interface {
	Issue(userID uint) (token string, expiresAt time.Time, err error)
}

// NewAuthenticator builds the authenticator selected by auth.mode
func NewAuthenticator(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Mode {
	case config.AuthModeToken:
		return NewTokenAuthenticator(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL), nil
	case config.AuthModeHeader:
		return NewHeaderAuthenticator(cfg.HeaderName), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// Claims is the JWT payload
type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// TokenAuthenticator issues and verifies HS256 bearer tokens
type TokenAuthenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenAuthenticator creates a token authenticator
func NewTokenAuthenticator(secret, issuer string, ttl time.Duration) *TokenAuthenticator {
	return &TokenAuthenticator{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID
func (a *TokenAuthenticator) Issue(userID uint) (string, time.Time, error) {
	now := a.now().UTC()
	expiresAt := now.Add(a.ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its user id
func (a *TokenAuthenticator) Verify(tokenString string) (uint, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidCredentials
	}
	return claims.UserID, nil
}

// Authenticate reads an Authorization: Bearer header. Browsers cannot set
// headers on a websocket handshake, so upgrades may pass access_token instead.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (uint, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if token := r.URL.Query().Get("access_token"); token != "" && websocket.IsWebSocketUpgrade(r) {
			return a.Verify(token)
		}
		return 0, ErrMissingCredentials
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return 0, ErrInvalidCredentials
	}
	return a.Verify(strings.TrimSpace(token))
}

// HeaderAuthenticator trusts a numeric user id header. Development only.
type HeaderAuthenticator struct {
	header string
}

// NewHeaderAuthenticator creates a header authenticator
func NewHeaderAuthenticator(header string) *HeaderAuthenticator {
	if header == "" {
		header = "X-User-Id"
	}
	return &HeaderAuthenticator{header: header}
}

// Authenticate parses the configured header as a positive integer
func (a *HeaderAuthenticator) Authenticate(r *http.Request) (uint, error) {
	raw := strings.TrimSpace(r.Header.Get(a.header))
	if raw == "" {
		return 0, ErrMissingCredentials
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidCredentials
	}
	return uint(id), nil
}
