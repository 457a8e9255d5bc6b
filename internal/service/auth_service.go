package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/security"
	"weeklymemories/internal/tokens"
)

var (
	ErrUnauthorized       = errors.New("invalid token")
	ErrAdminNotConfigured = errors.New("admin account not configured")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService resolves bearer credentials to author identities and manages
// admin sessions. Author credentials come in two forms sharing one header
// contract: durable HMAC-signed tokens and single-use emailed tokens.
type AuthService struct {
	codec      *tokens.Codec
	tokenStore *TokenService
	clock      *clock.Clock
	authors    map[string]bool

	secret            []byte
	adminUsername     string
	adminPasswordHash string
	sessionDuration   time.Duration
}

// NewAuthService creates an auth service. adminUsername/adminPasswordHash may
// be empty, which leaves the admin surface unconfigured (503 at the boundary).
// sessionDuration bounds admin session validity.
func NewAuthService(codec *tokens.Codec, tokenStore *TokenService, clk *clock.Clock, authors []string, secret []byte, adminUsername, adminPasswordHash string, sessionDuration time.Duration) *AuthService {
	allowed := make(map[string]bool, len(authors))
	for _, a := range authors {
		allowed[a] = true
	}
	return &AuthService{
		codec:             codec,
		tokenStore:        tokenStore,
		clock:             clk,
		authors:           allowed,
		secret:            secret,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		sessionDuration:   sessionDuration,
	}
}

// ResolveBearer maps a bearer token to an author identity. Signed tokens are
// tried first; on any failure the value is treated as a single-use token and
// consumed (using an emailed token as a credential burns it). Every internal
// failure collapses to ErrUnauthorized so callers can't tell which check
// rejected the credential.
func (s *AuthService) ResolveBearer(ctx context.Context, token string) (string, error) {
	if author, err := s.codec.Verify(token); err == nil {
		if !s.authors[author] {
			return "", ErrUnauthorized
		}
		return author, nil
	}

	author, err := s.tokenStore.Consume(ctx, token)
	if err != nil {
		return "", ErrUnauthorized
	}
	if !s.authors[author] {
		return "", ErrUnauthorized
	}
	return author, nil
}

// AdminLogin verifies the admin credentials and issues a short-lived session
// token signed with the process secret
func (s *AuthService) AdminLogin(username, password string) (string, error) {
	if s.adminUsername == "" || s.adminPasswordHash == "" {
		return "", ErrAdminNotConfigured
	}
	if username != s.adminUsername || !security.CheckPassword(password, s.adminPasswordHash) {
		return "", ErrInvalidCredentials
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   s.adminUsername,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAdminSession reports whether a session token is valid: signature,
// expiry, and subject matching the configured admin username. Any failure is
// false; this layer never explains why.
func (s *AuthService) VerifyAdminSession(tokenString string) bool {
	if s.adminUsername == "" {
		return false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.Subject == s.adminUsername
}
