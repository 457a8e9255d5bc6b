package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weeklymemories/internal/database"
	"weeklymemories/internal/models"
)

// MemoryRepository persists weekly journal entries
type MemoryRepository struct {
	db *database.DB
}

func NewMemoryRepository(db *database.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

// GetByWeekAuthor retrieves the entry for a (week, author) pair, or nil
func (r *MemoryRepository) GetByWeekAuthor(ctx context.Context, weekMonday time.Time, author string) (*models.WeeklyMemory, error) {
	return getByWeekAuthor(ctx, r.db, weekMonday.UTC(), author)
}

// getByWeekAuthor runs the (week, author) lookup on a connection or an open
// transaction
func getByWeekAuthor(ctx context.Context, q database.DBTX, monday time.Time, author string) (*models.WeeklyMemory, error) {
	query := `
		SELECT id, week_monday, author, text, created_at, updated_at
		FROM weekly_memories
		WHERE week_monday = ? AND author = ?
	`

	var m models.WeeklyMemory
	err := q.QueryRowContext(ctx, query, monday, author).Scan(
		&m.ID, &m.WeekMonday, &m.Author, &m.Text, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert creates the entry for (week, author) or updates its text in place.
// One entry per author per week; a rewrite within the week is not an error.
func (r *MemoryRepository) Upsert(ctx context.Context, weekMonday time.Time, author, text string, now time.Time) (*models.WeeklyMemory, error) {
	monday := weekMonday.UTC()
	stamp := now.UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE weekly_memories SET text = ?, updated_at = ? WHERE week_monday = ? AND author = ?`,
		text, stamp, monday, author)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		_, err = tx.ExecReturningID(ctx,
			`INSERT INTO weekly_memories (week_monday, author, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			monday, author, text, stamp, stamp)
		if err != nil {
			return nil, err
		}
	}

	// Read our own write before committing
	memory, err := getByWeekAuthor(ctx, tx, monday, author)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return memory, nil
}

// ListAll retrieves every weekly entry, oldest week first
func (r *MemoryRepository) ListAll(ctx context.Context) ([]models.WeeklyMemory, error) {
	query := `
		SELECT id, week_monday, author, text, created_at, updated_at
		FROM weekly_memories
		ORDER BY week_monday ASC, author ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []models.WeeklyMemory
	for rows.Next() {
		var m models.WeeklyMemory
		if err := rows.Scan(&m.ID, &m.WeekMonday, &m.Author, &m.Text, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
