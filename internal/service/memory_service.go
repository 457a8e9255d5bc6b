package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weeklymemories/internal/models"
	"weeklymemories/internal/repository"
	"weeklymemories/internal/window"
)

var ErrNotWritableNow = errors.New("not writable now")

// WeekStatus summarizes one week of the active year for the overview listing
type WeekStatus struct {
	WeekMonday time.Time
	Written    bool
	Entries    []models.WeeklyMemory
}

// MemoryService applies the write-window policy to weekly entries and serves
// the week overview
type MemoryService struct {
	memories *repository.MemoryRepository
	policy   *window.Policy
}

func NewMemoryService(memories *repository.MemoryRepository, policy *window.Policy) *MemoryService {
	return &MemoryService{memories: memories, policy: policy}
}

// WriteWeekly creates or updates the author's entry for at's week. The write
// window is checked first; outside it nothing is touched. A second write in
// the same week replaces the text in place.
func (s *MemoryService) WriteWeekly(ctx context.Context, author, text string, at time.Time) (*models.WeeklyMemory, error) {
	if !s.policy.CanWrite(at) {
		return nil, ErrNotWritableNow
	}

	monday := s.policy.WeekStart(at)
	memory, err := s.memories.Upsert(ctx, monday, author, text, at)
	if err != nil {
		return nil, fmt.Errorf("failed to store weekly memory: %w", err)
	}
	return memory, nil
}

// HasEntryForWeek reports whether the author already wrote the entry for the
// week containing at
func (s *MemoryService) HasEntryForWeek(ctx context.Context, author string, at time.Time) (bool, error) {
	monday := s.policy.WeekStart(at)
	memory, err := s.memories.GetByWeekAuthor(ctx, monday, author)
	if err != nil {
		return false, fmt.Errorf("failed to check weekly memory: %w", err)
	}
	return memory != nil, nil
}

// ListWeeks returns every week of the active year with the entries written so
// far, ascending
func (s *MemoryService) ListWeeks(ctx context.Context) ([]WeekStatus, error) {
	entries, err := s.memories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly memories: %w", err)
	}

	byWeek := make(map[int64][]models.WeeklyMemory)
	for _, m := range entries {
		key := m.WeekMonday.UTC().Unix()
		byWeek[key] = append(byWeek[key], m)
	}

	weeks := s.policy.AllWeeks()
	statuses := make([]WeekStatus, 0, len(weeks))
	for _, monday := range weeks {
		ws := WeekStatus{WeekMonday: monday}
		if found, ok := byWeek[monday.UTC().Unix()]; ok {
			ws.Written = true
			ws.Entries = found
		}
		statuses = append(statuses, ws)
	}
	return statuses, nil
}
