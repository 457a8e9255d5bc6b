package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"weeklymemories/internal/repository"
	"weeklymemories/internal/security"
	"weeklymemories/internal/tokens"
)

var serviceTestAuthors = []string{"Jaime", "Gabi"}

func serviceTestSecret() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func newAuthService(t *testing.T, adminUsername, adminPassword string) (*AuthService, *TokenService, *tokens.Codec) {
	t.Helper()

	secret := serviceTestSecret()
	codec := tokens.NewCodec(secret, serviceTestAuthors)
	store := NewTokenService(repository.NewTokenRepository(testDB(t)), frozenClock(t))

	var hash string
	if adminPassword != "" {
		var err error
		hash, err = security.HashPassword(adminPassword)
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
	}

	auth := NewAuthService(codec, store, frozenClock(t), serviceTestAuthors, secret, adminUsername, hash, time.Hour)
	return auth, store, codec
}

func TestResolveBearerSignedToken(t *testing.T) {
	auth, _, codec := newAuthService(t, "", "")
	ctx := context.Background()

	token, err := codec.Issue("Jaime")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	author, err := auth.ResolveBearer(ctx, token)
	if err != nil {
		t.Fatalf("ResolveBearer() error = %v", err)
	}
	if author != "Jaime" {
		t.Errorf("ResolveBearer() = %q, want Jaime", author)
	}

	// A durable token survives repeated use
	if _, err := auth.ResolveBearer(ctx, token); err != nil {
		t.Errorf("ResolveBearer() second use error = %v", err)
	}
}

func TestResolveBearerSingleUseTokenIsConsumed(t *testing.T) {
	auth, store, _ := newAuthService(t, "", "")
	ctx := context.Background()

	value, err := store.Issue(ctx, "Gabi", time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	author, err := auth.ResolveBearer(ctx, value)
	if err != nil {
		t.Fatalf("ResolveBearer() error = %v", err)
	}
	if author != "Gabi" {
		t.Errorf("ResolveBearer() = %q, want Gabi", author)
	}

	// The fallback path consumes: the same value must now be rejected
	if _, err := auth.ResolveBearer(ctx, value); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ResolveBearer() reuse error = %v, want ErrUnauthorized", err)
	}
}

func TestResolveBearerRejectsGarbage(t *testing.T) {
	auth, _, _ := newAuthService(t, "", "")
	ctx := context.Background()

	tests := []string{"", "garbage", "Bearer nested", "aGVsbG8="}
	for _, token := range tests {
		if _, err := auth.ResolveBearer(ctx, token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("ResolveBearer(%q) error = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestAdminLoginNotConfigured(t *testing.T) {
	auth, _, _ := newAuthService(t, "", "")

	if _, err := auth.AdminLogin("admin", "whatever"); !errors.Is(err, ErrAdminNotConfigured) {
		t.Errorf("AdminLogin() error = %v, want ErrAdminNotConfigured", err)
	}
}

func TestAdminLoginBadCredentials(t *testing.T) {
	auth, _, _ := newAuthService(t, "admin", "hunter2")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "hunter3"},
		{name: "wrong username", username: "root", password: "hunter2"},
		{name: "both wrong", username: "root", password: "toor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.AdminLogin(tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("AdminLogin() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAdminSessionLifecycle(t *testing.T) {
	auth, _, _ := newAuthService(t, "admin", "hunter2")

	session, err := auth.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin() error = %v", err)
	}
	if !auth.VerifyAdminSession(session) {
		t.Error("VerifyAdminSession() rejected a fresh session")
	}

	// Authors' signed tokens must not pass the admin check
	if auth.VerifyAdminSession("not-a-jwt") {
		t.Error("VerifyAdminSession() accepted garbage")
	}
}

func TestAdminSessionExpires(t *testing.T) {
	auth, _, _ := newAuthService(t, "admin", "hunter2")

	session, err := auth.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin() error = %v", err)
	}

	auth.clock.Advance(61 * time.Minute)

	if auth.VerifyAdminSession(session) {
		t.Error("VerifyAdminSession() accepted a session past its 1-hour expiry")
	}
}

func TestAdminSessionDurationConfigurable(t *testing.T) {
	codec := tokens.NewCodec(serviceTestSecret(), serviceTestAuthors)
	store := NewTokenService(repository.NewTokenRepository(testDB(t)), frozenClock(t))
	hash, err := security.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	clk := frozenClock(t)
	auth := NewAuthService(codec, store, clk, serviceTestAuthors, serviceTestSecret(), "admin", hash, 5*time.Minute)

	session, err := auth.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin() error = %v", err)
	}
	if !auth.VerifyAdminSession(session) {
		t.Error("VerifyAdminSession() rejected a fresh session")
	}

	clk.Advance(6 * time.Minute)

	if auth.VerifyAdminSession(session) {
		t.Error("VerifyAdminSession() accepted a session past the configured duration")
	}
}

func TestAdminSessionWrongSubjectRejected(t *testing.T) {
	authA, _, _ := newAuthService(t, "admin", "hunter2")

	// Same secret family, different configured admin username
	codec := tokens.NewCodec(serviceTestSecret(), serviceTestAuthors)
	store := NewTokenService(repository.NewTokenRepository(testDB(t)), frozenClock(t))
	hash, _ := security.HashPassword("hunter2")
	authB := NewAuthService(codec, store, frozenClock(t), serviceTestAuthors, serviceTestSecret(), "other-admin", hash, time.Hour)

	session, err := authB.AdminLogin("other-admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin() error = %v", err)
	}

	// Valid signature, wrong subject
	if authA.VerifyAdminSession(session) {
		t.Error("VerifyAdminSession() accepted a session for a different subject")
	}
}
