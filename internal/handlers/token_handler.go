package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"weeklymemories/internal/service"
)

// TokenHandler serves the emailed-link validation endpoint
type TokenHandler struct {
	tokenStore      *service.TokenService
	externalBaseURL string
}

func NewTokenHandler(tokenStore *service.TokenService, externalBaseURL string) *TokenHandler {
	return &TokenHandler{tokenStore: tokenStore, externalBaseURL: externalBaseURL}
}

// ValidateToken handles GET /token/{token}. The frontend uses it to check an
// emailed link before writing, so it peeks without consuming; the token is
// only burned once it is used as a bearer credential.
func (h *TokenHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("token")
	if value == "" {
		respondError(w, http.StatusNotFound, "invalid or expired token", nil)
		return
	}

	author, err := h.tokenStore.Peek(r.Context(), value)
	if err != nil {
		// Absent, consumed and expired all collapse to one 404
		respondError(w, http.StatusNotFound, "invalid or expired token", nil)
		return
	}

	if h.externalBaseURL != "" {
		redirect := strings.TrimRight(h.externalBaseURL, "/") + "/write?token=" +
			url.QueryEscape(value) + "&author=" + url.QueryEscape(author)
		http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"author": author,
		"ok":     true,
	})
}
