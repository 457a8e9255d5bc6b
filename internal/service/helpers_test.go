package service

import (
	"path/filepath"
	"testing"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/database"
	"weeklymemories/internal/window"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func madridLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

// frozenClock returns a clock pinned to a Sunday noon inside the active year
func frozenClock(t *testing.T) *clock.Clock {
	t.Helper()
	loc := madridLocation(t)
	return clock.NewFrozen(loc, time.Date(2026, 1, 11, 12, 0, 0, 0, loc))
}

func testPolicy(t *testing.T) *window.Policy {
	t.Helper()
	return window.New(madridLocation(t), 2026, false)
}
