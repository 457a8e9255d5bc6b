package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/models"
	"weeklymemories/internal/service"
)

// MemoryHandler serves the weekly entry and week overview endpoints
type MemoryHandler struct {
	memories *service.MemoryService
	clock    *clock.Clock
}

func NewMemoryHandler(memories *service.MemoryService, clk *clock.Clock) *MemoryHandler {
	return &MemoryHandler{memories: memories, clock: clk}
}

type weeklyMemoryRequest struct {
	Text string `json:"text"`
}

type weeklyMemoryResponse struct {
	WeekMonday string `json:"week_monday"`
	Text       string `json:"text"`
	Author     string `json:"author"`
}

// CreateWeeklyMemory handles POST /weekly-memory. The caller must already be
// resolved to an author; the write window decides whether storage is touched.
func (h *MemoryHandler) CreateWeeklyMemory(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())
	if author == "" {
		respondError(w, http.StatusUnauthorized, "Missing token", nil)
		return
	}

	var req weeklyMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	at := h.requestTime(r)

	memory, err := h.memories.WriteWeekly(r.Context(), author, req.Text, at)
	if err != nil {
		if errors.Is(err, service.ErrNotWritableNow) {
			respondError(w, http.StatusForbidden, "Not writable now", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to store weekly memory", err)
		return
	}

	respondJSON(w, http.StatusOK, toWeeklyMemoryResponse(memory, h.clock.Location()))
}

type weekResponse struct {
	WeekMonday string                 `json:"week_monday"`
	Status     string                 `json:"status"`
	Entries    []weeklyMemoryResponse `json:"entries,omitempty"`
}

// ListWeeks handles GET /weeks
func (h *MemoryHandler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.memories.ListWeeks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list weeks", err)
		return
	}

	loc := h.clock.Location()
	out := make([]weekResponse, 0, len(weeks))
	for _, week := range weeks {
		wr := weekResponse{
			WeekMonday: week.WeekMonday.In(loc).Format(time.RFC3339),
			Status:     "pending",
		}
		if week.Written {
			wr.Status = "written"
			for i := range week.Entries {
				wr.Entries = append(wr.Entries, toWeeklyMemoryResponse(&week.Entries[i], loc))
			}
		}
		out = append(out, wr)
	}
	respondJSON(w, http.StatusOK, out)
}

// requestTime returns the effective time of the request. The X-Test-Now
// header mirrors the TEST_NOW override for end-to-end tests; parse errors
// fall back to the clock.
func (h *MemoryHandler) requestTime(r *http.Request) time.Time {
	if v := r.Header.Get("X-Test-Now"); v != "" {
		if t, err := clock.Parse(v, h.clock.Location()); err == nil {
			return t.In(h.clock.Location())
		}
	}
	return h.clock.Now()
}

func toWeeklyMemoryResponse(m *models.WeeklyMemory, loc *time.Location) weeklyMemoryResponse {
	return weeklyMemoryResponse{
		WeekMonday: m.WeekMonday.In(loc).Format(time.RFC3339),
		Text:       m.Text,
		Author:     m.Author,
	}
}
