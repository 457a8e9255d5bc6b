package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"weeklymemories/internal/repository"
)

func newMemoryService(t *testing.T) *MemoryService {
	t.Helper()
	return NewMemoryService(repository.NewMemoryRepository(testDB(t)), testPolicy(t))
}

func TestWriteWeeklyOutsideWindow(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	loc := madridLocation(t)

	tests := []struct {
		name string
		at   time.Time
	}{
		{
			name: "monday",
			at:   time.Date(2026, 1, 5, 12, 0, 0, 0, loc),
		},
		{
			name: "sunday outside active year",
			at:   time.Date(2027, 1, 10, 12, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.WriteWeekly(ctx, "Jaime", "entry", tt.at); !errors.Is(err, ErrNotWritableNow) {
				t.Errorf("WriteWeekly() error = %v, want ErrNotWritableNow", err)
			}
		})
	}
}

func TestWriteWeeklyUpdatesInPlace(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	loc := madridLocation(t)
	sunday := time.Date(2026, 1, 11, 12, 0, 0, 0, loc)

	first, err := svc.WriteWeekly(ctx, "Jaime", "first draft", sunday)
	if err != nil {
		t.Fatalf("WriteWeekly() error = %v", err)
	}
	if first.Text != "first draft" {
		t.Errorf("Text = %q, want first draft", first.Text)
	}

	// Second write in the same week replaces, never conflicts
	second, err := svc.WriteWeekly(ctx, "Jaime", "final version", sunday.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("WriteWeekly() rewrite error = %v", err)
	}
	if second.Text != "final version" {
		t.Errorf("Text after rewrite = %q, want final version", second.Text)
	}
	if second.ID != first.ID {
		t.Errorf("rewrite created a new row: id %d != %d", second.ID, first.ID)
	}
}

func TestWriteWeeklyPerAuthorEntries(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	loc := madridLocation(t)
	sunday := time.Date(2026, 1, 11, 12, 0, 0, 0, loc)

	if _, err := svc.WriteWeekly(ctx, "Jaime", "jaime's week", sunday); err != nil {
		t.Fatalf("WriteWeekly() error = %v", err)
	}
	if _, err := svc.WriteWeekly(ctx, "Gabi", "gabi's week", sunday); err != nil {
		t.Fatalf("WriteWeekly() for second author error = %v", err)
	}

	hasJaime, err := svc.HasEntryForWeek(ctx, "Jaime", sunday)
	if err != nil || !hasJaime {
		t.Errorf("HasEntryForWeek(Jaime) = %v, %v, want true", hasJaime, err)
	}

	nextSunday := sunday.AddDate(0, 0, 7)
	hasNext, err := svc.HasEntryForWeek(ctx, "Jaime", nextSunday)
	if err != nil || hasNext {
		t.Errorf("HasEntryForWeek(next week) = %v, %v, want false", hasNext, err)
	}
}

func TestListWeeks(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	loc := madridLocation(t)
	sunday := time.Date(2026, 1, 11, 12, 0, 0, 0, loc)

	if _, err := svc.WriteWeekly(ctx, "Gabi", "week one", sunday); err != nil {
		t.Fatalf("WriteWeekly() error = %v", err)
	}

	weeks, err := svc.ListWeeks(ctx)
	if err != nil {
		t.Fatalf("ListWeeks() error = %v", err)
	}
	if len(weeks) == 0 {
		t.Fatal("ListWeeks() returned no weeks")
	}

	written := 0
	for _, w := range weeks {
		if w.Written {
			written++
			if len(w.Entries) != 1 || w.Entries[0].Author != "Gabi" {
				t.Errorf("written week has entries %+v, want one entry by Gabi", w.Entries)
			}
		} else if len(w.Entries) != 0 {
			t.Errorf("pending week %v carries entries", w.WeekMonday)
		}
	}
	if written != 1 {
		t.Errorf("written weeks = %d, want 1", written)
	}
}
