package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weeklymemories/internal/database"
	"weeklymemories/internal/models"
)

// TokenRepository persists single-use email tokens
type TokenRepository struct {
	db *database.DB
}

func NewTokenRepository(db *database.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new unconsumed token record. A duplicate value fails the
// unique constraint; callers retry with a freshly generated value.
func (r *TokenRepository) Create(ctx context.Context, token, author string, expiresAt time.Time) error {
	query := `INSERT INTO email_tokens (token, author, expires_at, used) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, token, author, expiresAt.UTC(), false)
	return err
}

// GetByToken retrieves a token record by value, or nil if absent
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*models.EmailToken, error) {
	query := `SELECT id, token, author, expires_at, used FROM email_tokens WHERE token = ?`

	var et models.EmailToken
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&et.ID, &et.Token, &et.Author, &et.ExpiresAt, &et.Used,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &et, nil
}

// MarkUsed flips the consumed flag with a conditional update so that two
// racing consumers get exactly one winner. Returns whether this caller won.
func (r *TokenRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	query := `UPDATE email_tokens SET used = ? WHERE token = ? AND used = ?`
	result, err := r.db.ExecContext(ctx, query, true, token, false)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
