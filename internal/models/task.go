package models

import "time"

// Task statuses
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskApproved  = "approved"
	TaskRejected  = "rejected"
)

// Task is a chore a parent assigns to a kid
type Task struct {
	ID               string    `json:"id"`
	KidID            string    `json:"kid_id"`
	ParentID         string    `json:"parent_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	RewardAmount     float64   `json:"reward_amount"`
	PenaltyAmount    float64   `json:"penalty_amount"`
	Frequency        string    `json:"frequency"`
	ApprovalRequired bool      `json:"approval_required"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsOpen reports whether the task still needs attention from the kid or the parent
func (t *Task) IsOpen() bool {
	return t.Status == TaskPending || t.Status == TaskCompleted
}
