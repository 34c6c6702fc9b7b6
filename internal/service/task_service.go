package service

import (
	"context"
	"fmt"
	"strings"

	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
	"kidsmoney/internal/repository"
	"kidsmoney/internal/validation"
)

// Task frequencies
const (
	FrequencyOneTime = "one-time"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// NewTask is the input for assigning a task
type NewTask struct {
	KidID         string
	Title         string
	Description   string
	RewardAmount  float64
	PenaltyAmount float64
	Frequency     string
	// ApprovalRequired defaults to true when nil
	ApprovalRequired *bool
}

// TaskService runs the chore workflow: pending -> completed -> approved|rejected,
// or pending -> approved directly when no approval is needed.
type TaskService struct {
	*core
}

// Create assigns a task to a kid
func (s *TaskService) Create(ctx context.Context, actor Actor, in NewTask) (*models.Task, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	if in.Frequency == "" {
		in.Frequency = FrequencyOneTime
	}
	err := validation.First(
		validation.ValidateRequired("title", in.Title, 200),
		validation.ValidateAmount("reward_amount", in.RewardAmount),
		validation.ValidateOptionalAmount("penalty_amount", in.PenaltyAmount),
		validation.ValidateOneOf("frequency", in.Frequency, FrequencyOneTime, FrequencyDaily, FrequencyWeekly, FrequencyMonthly),
	)
	if err != nil {
		return nil, err
	}
	if _, err := s.kidFor(ctx, s.repos, actor, in.KidID); err != nil {
		return nil, err
	}

	approval := true
	if in.ApprovalRequired != nil {
		approval = *in.ApprovalRequired
	}
	task := &models.Task{
		KidID:            in.KidID,
		ParentID:         actor.ParentID,
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		RewardAmount:     in.RewardAmount,
		PenaltyAmount:    in.PenaltyAmount,
		Frequency:        in.Frequency,
		ApprovalRequired: approval,
		Status:           models.TaskPending,
	}
	if err := s.repos.Tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns a kid's tasks, newest first, optionally filtered by status
func (s *TaskService) List(ctx context.Context, actor Actor, kidID, status string) ([]models.Task, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	return s.repos.Tasks.ListByKid(ctx, kidID, status)
}

// Complete marks a pending task done. Tasks that need no approval are paid at once.
func (s *TaskService) Complete(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	var task *models.Task
	awaitingApproval := false

	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		t, err := s.taskFor(ctx, tx.Repos, actor, taskID)
		if err != nil {
			return err
		}
		if t.Status != models.TaskPending {
			return ErrTaskNotPending
		}

		if t.ApprovalRequired {
			if err := s.transition(ctx, tx, t, models.TaskCompleted, ErrTaskNotPending); err != nil {
				return err
			}
			awaitingApproval = true
		} else {
			if err := s.transition(ctx, tx, t, models.TaskApproved, ErrTaskNotPending); err != nil {
				return err
			}
			if err := s.payReward(ctx, tx, t, "Task reward: %s"); err != nil {
				return err
			}
		}

		task, err = tx.Repos.Tasks.GetTaskByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if awaitingApproval {
		s.notify(ctx, task.KidID, "task_awaiting_approval", func(parent *models.User, kid *models.Kid) error {
			return s.notifier.TaskAwaitingApproval(ctx, parent, kid, task)
		})
	}
	return task, nil
}

// Approve pays the reward for a completed task
func (s *TaskService) Approve(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	var task *models.Task
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		t, err := s.taskFor(ctx, tx.Repos, actor, taskID)
		if err != nil {
			return err
		}
		if t.Status != models.TaskCompleted {
			return ErrTaskNotCompleted
		}
		if err := s.transition(ctx, tx, t, models.TaskApproved, ErrTaskNotCompleted); err != nil {
			return err
		}
		if err := s.payReward(ctx, tx, t, "Task approved: %s"); err != nil {
			return err
		}
		task, err = tx.Repos.Tasks.GetTaskByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reject turns down a completed task. The penalty is charged only when the
// balance covers it; the credit score drops either way.
func (s *TaskService) Reject(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	var task *models.Task
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		t, err := s.taskFor(ctx, tx.Repos, actor, taskID)
		if err != nil {
			return err
		}
		if t.Status != models.TaskCompleted {
			return ErrTaskNotCompleted
		}
		if err := s.transition(ctx, tx, t, models.TaskRejected, ErrTaskNotCompleted); err != nil {
			return err
		}

		if t.PenaltyAmount > 0 {
			ok, err := tx.Repos.Wallets.Debit(ctx, t.KidID, t.PenaltyAmount)
			if err != nil {
				return err
			}
			if ok {
				err = tx.post(ctx, t.KidID, models.TxDebit, t.PenaltyAmount, Entry{
					Description: fmt.Sprintf("Task penalty: %s", t.Title),
					Category:    models.CategoryPenalty,
					ReferenceID: t.ID,
				})
				if err != nil {
					return err
				}
			} else {
				s.logger.Debug().Str("task_id", t.ID).Msg("penalty skipped: balance too low")
			}
		}
		if err := tx.Reward(ctx, t.KidID, 0, progression.TaskRejectCredit); err != nil {
			return err
		}

		task, err = tx.Repos.Tasks.GetTaskByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) taskFor(ctx context.Context, repos *repository.Set, actor Actor, taskID string) (*models.Task, error) {
	t, err := repos.Tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil || !actor.canSee(t.KidID, t.ParentID) {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskService) transition(ctx context.Context, tx *LedgerTx, t *models.Task, to string, lost error) error {
	ok, err := tx.Repos.Tasks.Transition(ctx, t.ID, t.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return lost
	}
	return nil
}

func (s *TaskService) payReward(ctx context.Context, tx *LedgerTx, t *models.Task, format string) error {
	err := tx.Credit(ctx, t.KidID, t.RewardAmount, Entry{
		Description: fmt.Sprintf(format, t.Title),
		Category:    models.CategoryTask,
		ReferenceID: t.ID,
	})
	if err != nil {
		return err
	}
	return tx.Reward(ctx, t.KidID, progression.TaskRewardXP, progression.TaskRewardCredit)
}
