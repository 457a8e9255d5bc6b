package models

import "time"

// WeeklyMemory is one author's journal entry for a calendar week, keyed by
// the week's Monday plus the author
type WeeklyMemory struct {
	ID         int64
	WeekMonday time.Time
	Author     string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
