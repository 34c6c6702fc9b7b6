package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/finance"
	"kidsmoney/internal/models"
)

// GoalRepository handles database operations for savings goals
type GoalRepository struct {
	db database.DBTX
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db database.DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = "id, kid_id, parent_id, title, target_amount, saved_amount, deadline, status, created_at"

// CreateGoal inserts a goal
func (r *GoalRepository) CreateGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now()
	}
	if g.Status == "" {
		g.Status = models.GoalActive
	}
	query := "INSERT INTO goals (" + goalColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.KidID, g.ParentID, g.Title, g.TargetAmount, g.SavedAmount, g.Deadline, g.Status, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetGoalByID retrieves a goal by ID
func (r *GoalRepository) GetGoalByID(ctx context.Context, id string) (*models.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

// ListByKid returns a kid's goals, newest first
func (r *GoalRepository) ListByKid(ctx context.Context, kidID string) ([]models.Goal, error) {
	return r.list(ctx, "SELECT "+goalColumns+" FROM goals WHERE kid_id = ? ORDER BY created_at DESC", kidID)
}

// AllGoals returns every goal
func (r *GoalRepository) AllGoals(ctx context.Context) ([]models.Goal, error) {
	return r.list(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY created_at ASC")
}

// AddSavings adds amount to an active goal and completes it once the target is met.
// The status assignment comes first so MySQL, which applies SET clauses left to right,
// compares against the pre-update saved_amount like the other dialects.
func (r *GoalRepository) AddSavings(ctx context.Context, id string, amount float64) (bool, error) {
	amount = finance.Round2(amount)
	saved := r.db.GetDialect().CentsExpr("saved_amount + ?")
	query := `
		UPDATE goals
		SET status = CASE WHEN ` + saved + ` >= target_amount THEN ? ELSE status END,
		    saved_amount = ` + saved + `
		WHERE id = ? AND status = ?
	`
	res, err := r.db.ExecContext(ctx, query, amount, models.GoalCompleted, amount, id, models.GoalActive)
	if err != nil {
		return false, fmt.Errorf("failed to add savings to goal: %w", err)
	}
	return affected(res)
}

// DeleteGoal removes a goal
func (r *GoalRepository) DeleteGoal(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete goal: %w", err)
	}
	return affected(res)
}

// CountByStatus counts a kid's goals in one status
func (r *GoalRepository) CountByStatus(ctx context.Context, kidID, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM goals WHERE kid_id = ? AND status = ?", kidID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return n, nil
}

func (r *GoalRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	g := &models.Goal{}
	var deadline sql.NullString
	err := row.Scan(&g.ID, &g.KidID, &g.ParentID, &g.Title, &g.TargetAmount, &g.SavedAmount, &deadline, &g.Status, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	if deadline.Valid {
		g.Deadline = &deadline.String
	}
	g.SavedAmount = finance.Round2(g.SavedAmount)
	return g, nil
}
