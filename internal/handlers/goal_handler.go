package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/repository"
)

// GoalHandler serves the author-scoped goal CRUD endpoints
type GoalHandler struct {
	goals *repository.GoalRepository
	clock *clock.Clock
}

func NewGoalHandler(goals *repository.GoalRepository, clk *clock.Clock) *GoalHandler {
	return &GoalHandler{goals: goals, clock: clk}
}

type textRequest struct {
	Text string `json:"text"`
}

type goalResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// List handles GET /goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())

	goals, err := h.goals.ListByAuthor(r.Context(), author)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalResponse{
			ID:        g.ID,
			Text:      g.Text,
			Author:    g.Author,
			CreatedAt: g.CreatedAt.In(h.clock.Location()).Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Create handles POST /goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	goal, err := h.goals.Create(r.Context(), req.Text, author, h.clock.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create goal", err)
		return
	}

	respondJSON(w, http.StatusOK, goalResponse{
		ID:        goal.ID,
		Text:      goal.Text,
		Author:    goal.Author,
		CreatedAt: goal.CreatedAt.In(h.clock.Location()).Format(time.RFC3339),
	})
}

// Delete handles DELETE /goals/{id}. Authors can only delete their own goals.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found", nil)
		return
	}

	deleted, err := h.goals.Delete(r.Context(), id, author)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete goal", err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
