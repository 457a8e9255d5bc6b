package models

import "time"

// Goal is a personal goal recorded by an author
type Goal struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
}

// UnlinkedMemory is a free-form memory not tied to any week
type UnlinkedMemory struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
}
