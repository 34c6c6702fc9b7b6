package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db database.DBTX
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db database.DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, kid_id, parent_id, title, description, reward_amount, penalty_amount, frequency, approval_required, status, created_at, updated_at"

// CreateTask inserts a task
func (r *TaskRepository) CreateTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	query := "INSERT INTO tasks (" + taskColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.KidID, t.ParentID, t.Title, t.Description, t.RewardAmount, t.PenaltyAmount,
		t.Frequency, t.ApprovalRequired, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// ListByKid returns a kid's tasks, newest first, optionally filtered by status
func (r *TaskRepository) ListByKid(ctx context.Context, kidID, status string) ([]models.Task, error) {
	if status == "" {
		return r.list(ctx, "SELECT "+taskColumns+" FROM tasks WHERE kid_id = ? ORDER BY created_at DESC", kidID)
	}
	return r.list(ctx, "SELECT "+taskColumns+" FROM tasks WHERE kid_id = ? AND status = ? ORDER BY created_at DESC", kidID, status)
}

// AllTasks returns every task
func (r *TaskRepository) AllTasks(ctx context.Context) ([]models.Task, error) {
	return r.list(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at ASC")
}

// Transition moves a task from one status to another.
// It returns false when the task was not in the from status.
func (r *TaskRepository) Transition(ctx context.Context, id, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		to, now(), id, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task status: %w", err)
	}
	return affected(res)
}

// CountByStatus counts a kid's tasks in one status
func (r *TaskRepository) CountByStatus(ctx context.Context, kidID, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE kid_id = ? AND status = ?", kidID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.KidID, &t.ParentID, &t.Title, &t.Description, &t.RewardAmount, &t.PenaltyAmount,
		&t.Frequency, &t.ApprovalRequired, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return t, nil
}
