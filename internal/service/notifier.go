package service

import (
	"context"

	"kidsmoney/internal/models"
)

// Notifier tells a parent about events that need their attention
type Notifier interface {
	TaskAwaitingApproval(ctx context.Context, parent *models.User, kid *models.Kid, task *models.Task) error
	LoanRequested(ctx context.Context, parent *models.User, kid *models.Kid, loan *models.Loan) error
	GoalCompleted(ctx context.Context, parent *models.User, kid *models.Kid, goal *models.Goal) error
}

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) TaskAwaitingApproval(context.Context, *models.User, *models.Kid, *models.Task) error {
	return nil
}

func (NopNotifier) LoanRequested(context.Context, *models.User, *models.Kid, *models.Loan) error {
	return nil
}

func (NopNotifier) GoalCompleted(context.Context, *models.User, *models.Kid, *models.Goal) error {
	return nil
}
