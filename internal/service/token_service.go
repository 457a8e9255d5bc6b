package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/repository"
)

// ErrTokenInvalid covers every invalid-token outcome (absent, consumed,
// expired). Callers never learn which check failed.
var ErrTokenInvalid = errors.New("invalid or expired token")

// DefaultTokenTTL is how long an emailed token stays redeemable
const DefaultTokenTTL = 24 * time.Hour

const createAttempts = 5

// TokenService is the single-use token store: issuance, non-consuming
// validation, and exactly-once consumption of emailed tokens.
type TokenService struct {
	repo  *repository.TokenRepository
	clock *clock.Clock
}

func NewTokenService(repo *repository.TokenRepository, clk *clock.Clock) *TokenService {
	return &TokenService{repo: repo, clock: clk}
}

// Issue creates a token for an author with the given TTL and returns the raw
// value. The value itself is the bearer secret: 32 random bytes, URL-safe.
func (s *TokenService) Issue(ctx context.Context, author string, ttl time.Duration) (string, error) {
	expiresAt := s.clock.Now().UTC().Add(ttl)

	var lastErr error
	for i := 0; i < createAttempts; i++ {
		value, err := generateTokenValue()
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		// A collision fails the unique constraint; retry with a new value
		if err := s.repo.Create(ctx, value, author, expiresAt); err != nil {
			lastErr = err
			continue
		}
		return value, nil
	}
	return "", fmt.Errorf("failed to store token: %w", lastErr)
}

// Peek validates a token without consuming it and returns its author
func (s *TokenService) Peek(ctx context.Context, value string) (string, error) {
	token, err := s.repo.GetByToken(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	if token == nil || !token.IsValid(s.clock.Now()) {
		return "", ErrTokenInvalid
	}
	return token.Author, nil
}

// Consume applies the same validity checks as Peek and then claims the token.
// The claim is a conditional update on the consumed flag, so concurrent
// consumers of one token yield at most one success.
func (s *TokenService) Consume(ctx context.Context, value string) (string, error) {
	token, err := s.repo.GetByToken(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	if token == nil || !token.IsValid(s.clock.Now()) {
		return "", ErrTokenInvalid
	}

	won, err := s.repo.MarkUsed(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to consume token: %w", err)
	}
	if !won {
		// Another request claimed it between our read and the update
		return "", ErrTokenInvalid
	}
	return token.Author, nil
}

// generateTokenValue returns a fresh random URL-safe token value
func generateTokenValue() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
