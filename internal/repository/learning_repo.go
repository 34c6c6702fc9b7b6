package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
)

// LearningRepository stores per-story quiz results
type LearningRepository struct {
	db database.DBTX
}

// NewLearningRepository creates a new learning repository
func NewLearningRepository(db database.DBTX) *LearningRepository {
	return &LearningRepository{db: db}
}

const progressColumns = "id, kid_id, story_id, score, completed_at"

// CreateProgress records the first completion of a story
func (r *LearningRepository) CreateProgress(ctx context.Context, p *models.LearningProgress) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CompletedAt.IsZero() {
		p.CompletedAt = now()
	}
	query := "INSERT INTO learning_progress (" + progressColumns + ") VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.KidID, p.StoryID, p.Score, p.CompletedAt); err != nil {
		return fmt.Errorf("failed to create learning progress: %w", err)
	}
	return nil
}

// GetProgress returns a kid's record for one story
func (r *LearningRepository) GetProgress(ctx context.Context, kidID, storyID string) (*models.LearningProgress, error) {
	p := &models.LearningProgress{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM learning_progress WHERE kid_id = ? AND story_id = ?", kidID, storyID,
	).Scan(&p.ID, &p.KidID, &p.StoryID, &p.Score, &p.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning progress: %w", err)
	}
	return p, nil
}

// RaiseScore replaces the stored score only when score is higher
func (r *LearningRepository) RaiseScore(ctx context.Context, id string, score int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE learning_progress SET score = ? WHERE id = ? AND score < ?", score, id, score)
	if err != nil {
		return false, fmt.Errorf("failed to update learning score: %w", err)
	}
	return affected(res)
}

// ListByKid returns every story record for a kid
func (r *LearningRepository) ListByKid(ctx context.Context, kidID string) ([]models.LearningProgress, error) {
	return r.list(ctx, "SELECT "+progressColumns+" FROM learning_progress WHERE kid_id = ? ORDER BY completed_at ASC", kidID)
}

// AllProgress returns every record
func (r *LearningRepository) AllProgress(ctx context.Context) ([]models.LearningProgress, error) {
	return r.list(ctx, "SELECT "+progressColumns+" FROM learning_progress ORDER BY completed_at ASC")
}

func (r *LearningRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.LearningProgress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning progress: %w", err)
	}
	defer rows.Close()

	progress := []models.LearningProgress{}
	for rows.Next() {
		var p models.LearningProgress
		if err := rows.Scan(&p.ID, &p.KidID, &p.StoryID, &p.Score, &p.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning progress: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
