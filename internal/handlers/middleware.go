package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"weeklymemories/internal/security"
	"weeklymemories/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const AuthorContextKey ContextKey = "author"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
	}
}

// RequireAuthor resolves the bearer credential to an author identity. An
// absent header is rejected outright; no fallback is attempted. All
// resolution failures surface as one generic 401.
func (m *Middleware) RequireAuthor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Missing token", nil)
			return
		}

		author, err := m.authService.ResolveBearer(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), AuthorContextKey, author)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin guards privileged endpoints with an admin session token
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Missing token", nil)
			return
		}

		if !m.authService.VerifyAdminSession(token) {
			respondError(w, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		next(w, r)
	}
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next(w, r)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// Logging middleware logs HTTP requests and tags them with a request ID
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s %s", r.Method, r.URL.Path, time.Since(start), requestID)
	})
}

// GetAuthorFromContext retrieves the resolved author from the request context
func GetAuthorFromContext(ctx context.Context) string {
	author, ok := ctx.Value(AuthorContextKey).(string)
	if !ok {
		return ""
	}
	return author
}
