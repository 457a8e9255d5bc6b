package repository

import (
	"context"
	"time"

	"weeklymemories/internal/database"
	"weeklymemories/internal/models"
)

// UnlinkedRepository persists free-form memories not tied to a week
type UnlinkedRepository struct {
	db *database.DB
}

func NewUnlinkedRepository(db *database.DB) *UnlinkedRepository {
	return &UnlinkedRepository{db: db}
}

// Create inserts an unlinked memory for an author
func (r *UnlinkedRepository) Create(ctx context.Context, text, author string, createdAt time.Time) (*models.UnlinkedMemory, error) {
	query := `INSERT INTO unlinked_memories (text, author, created_at) VALUES (?, ?, ?)`
	id, err := r.db.ExecReturningID(ctx, query, text, author, createdAt.UTC())
	if err != nil {
		return nil, err
	}

	return &models.UnlinkedMemory{
		ID:        id,
		Text:      text,
		Author:    author,
		CreatedAt: createdAt,
	}, nil
}

// ListByAuthor retrieves an author's unlinked memories, newest first
func (r *UnlinkedRepository) ListByAuthor(ctx context.Context, author string) ([]models.UnlinkedMemory, error) {
	query := `SELECT id, text, author, created_at FROM unlinked_memories WHERE author = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []models.UnlinkedMemory
	for rows.Next() {
		var m models.UnlinkedMemory
		if err := rows.Scan(&m.ID, &m.Text, &m.Author, &m.CreatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// Delete removes an author's unlinked memory by ID; returns whether a row was deleted
func (r *UnlinkedRepository) Delete(ctx context.Context, id int64, author string) (bool, error) {
	query := `DELETE FROM unlinked_memories WHERE id = ? AND author = ?`
	result, err := r.db.ExecContext(ctx, query, id, author)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
