package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"weeklymemories/internal/service"
)

// AdminHandler serves the privileged operational endpoints
type AdminHandler struct {
	authService *service.AuthService
	reminders   *service.ReminderService
}

func NewAdminHandler(authService *service.AuthService, reminders *service.ReminderService) *AdminHandler {
	return &AdminHandler{authService: authService, reminders: reminders}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /admin/login. A missing admin configuration is an
// operational condition (503), distinct from bad credentials (401).
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "Admin account not configured", nil)
			return
		}
		respondError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"token": token,
	})
}

// Ping handles GET /admin/ping, a session liveness probe
func (h *AdminHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SendTestEmails handles POST /admin/send-test-emails: mails every configured
// author a fresh durable signed token and reports per-author outcomes
func (h *AdminHandler) SendTestEmails(w http.ResponseWriter, r *http.Request) {
	results := h.reminders.SendTestEmails(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
