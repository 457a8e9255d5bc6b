package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/repository"
)

// UnlinkedHandler serves the free-form memory endpoints
type UnlinkedHandler struct {
	memories *repository.UnlinkedRepository
	clock    *clock.Clock
}

func NewUnlinkedHandler(memories *repository.UnlinkedRepository, clk *clock.Clock) *UnlinkedHandler {
	return &UnlinkedHandler{memories: memories, clock: clk}
}

type unlinkedResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// List handles GET /unlinked
func (h *UnlinkedHandler) List(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())

	memories, err := h.memories.ListByAuthor(r.Context(), author)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list memories", err)
		return
	}

	out := make([]unlinkedResponse, 0, len(memories))
	for _, m := range memories {
		out = append(out, unlinkedResponse{
			ID:        m.ID,
			Text:      m.Text,
			Author:    m.Author,
			CreatedAt: m.CreatedAt.In(h.clock.Location()).Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Create handles POST /unlinked
func (h *UnlinkedHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	memory, err := h.memories.Create(r.Context(), req.Text, author, h.clock.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create memory", err)
		return
	}

	respondJSON(w, http.StatusOK, unlinkedResponse{
		ID:        memory.ID,
		Text:      memory.Text,
		Author:    memory.Author,
		CreatedAt: memory.CreatedAt.In(h.clock.Location()).Format(time.RFC3339),
	})
}

// Delete handles DELETE /unlinked/{id}
func (h *UnlinkedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	author := GetAuthorFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found", nil)
		return
	}

	deleted, err := h.memories.Delete(r.Context(), id, author)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete memory", err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
