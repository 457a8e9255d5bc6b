package models

import "time"

// EmailToken is a single-use credential mailed to an author. The value is an
// opaque random string; nothing can be derived from it without a store lookup.
type EmailToken struct {
	ID        int64
	Token     string
	Author    string
	ExpiresAt time.Time
	Used      bool
}

// IsExpired reports whether the token expiry has passed at the given instant.
// Stored timestamps are compared in UTC so naive database values behave.
func (t *EmailToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.UTC().Before(now.UTC())
}

func (t *EmailToken) IsUsed() bool {
	return t.Used
}

func (t *EmailToken) IsValid(now time.Time) bool {
	return !t.IsUsed() && !t.IsExpired(now)
}
