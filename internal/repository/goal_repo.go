package repository

import (
	"context"
	"time"

	"weeklymemories/internal/database"
	"weeklymemories/internal/models"
)

// GoalRepository persists author goals
type GoalRepository struct {
	db *database.DB
}

func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a goal for an author
func (r *GoalRepository) Create(ctx context.Context, text, author string, createdAt time.Time) (*models.Goal, error) {
	query := `INSERT INTO goals (text, author, created_at) VALUES (?, ?, ?)`
	id, err := r.db.ExecReturningID(ctx, query, text, author, createdAt.UTC())
	if err != nil {
		return nil, err
	}

	return &models.Goal{
		ID:        id,
		Text:      text,
		Author:    author,
		CreatedAt: createdAt,
	}, nil
}

// ListByAuthor retrieves an author's goals, newest first
func (r *GoalRepository) ListByAuthor(ctx context.Context, author string) ([]models.Goal, error) {
	query := `SELECT id, text, author, created_at FROM goals WHERE author = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Text, &g.Author, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Delete removes an author's goal by ID; returns whether a row was deleted
func (r *GoalRepository) Delete(ctx context.Context, id int64, author string) (bool, error) {
	query := `DELETE FROM goals WHERE id = ? AND author = ?`
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
