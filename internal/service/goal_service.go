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

// NewGoal is the input for creating a savings goal
type NewGoal struct {
	KidID        string
	Title        string
	TargetAmount float64
	Deadline     *string
}

// GoalService manages savings goals
type GoalService struct {
	*core
}

// Create opens a savings goal for a kid
func (s *GoalService) Create(ctx context.Context, actor Actor, in NewGoal) (*models.Goal, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	err := validation.First(
		validation.ValidateRequired("title", in.Title, 200),
		validation.ValidateAmount("target_amount", in.TargetAmount),
	)
	if err != nil {
		return nil, err
	}
	if _, err := s.kidFor(ctx, s.repos, actor, in.KidID); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		KidID:        in.KidID,
		ParentID:     actor.ParentID,
		Title:        strings.TrimSpace(in.Title),
		TargetAmount: in.TargetAmount,
		Deadline:     in.Deadline,
		Status:       models.GoalActive,
	}
	if err := s.repos.Goals.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// List returns a kid's goals
func (s *GoalService) List(ctx context.Context, actor Actor, kidID string) ([]models.Goal, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	return s.repos.Goals.ListByKid(ctx, kidID)
}

// Contribute moves money from the wallet into an active goal
func (s *GoalService) Contribute(ctx context.Context, actor Actor, goalID string, amount float64) (*models.Goal, error) {
	if err := validation.ValidateAmount("amount", amount); err != nil {
		return nil, err
	}

	var goal *models.Goal
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		g, err := s.goalFor(ctx, tx.Repos, actor, goalID)
		if err != nil {
			return err
		}
		if g.Status != models.GoalActive {
			return ErrGoalNotActive
		}

		err = tx.MoveToSavings(ctx, g.KidID, amount, Entry{
			Description: fmt.Sprintf("Goal savings: %s", g.Title),
			Category:    models.CategoryGoal,
			ReferenceID: g.ID,
		})
		if err != nil {
			return err
		}
		ok, err := tx.Repos.Goals.AddSavings(ctx, g.ID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGoalNotActive
		}
		if err := tx.Reward(ctx, g.KidID, progression.GoalContributeXP, progression.GoalContributeCredit); err != nil {
			return err
		}

		goal, err = tx.Repos.Goals.GetGoalByID(ctx, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if goal.Status == models.GoalCompleted {
		s.notify(ctx, goal.KidID, "goal_completed", func(parent *models.User, kid *models.Kid) error {
			return s.notifier.GoalCompleted(ctx, parent, kid, goal)
		})
	}
	return goal, nil
}

// Delete removes a goal in any status and returns its savings to the wallet
func (s *GoalService) Delete(ctx context.Context, actor Actor, goalID string) error {
	if actor.IsKid() {
		return ErrForbidden
	}
	return s.ledger.Run(ctx, func(tx *LedgerTx) error {
		g, err := s.goalFor(ctx, tx.Repos, actor, goalID)
		if err != nil {
			return err
		}
		if g.SavedAmount > 0 {
			err := tx.ReleaseSavings(ctx, g.KidID, g.SavedAmount, Entry{
				Description: fmt.Sprintf("Goal refund: %s", g.Title),
				Category:    models.CategoryGoalRefund,
				ReferenceID: g.ID,
			})
			if err != nil {
				return err
			}
		}
		ok, err := tx.Repos.Goals.DeleteGoal(ctx, g.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGoalNotFound
		}
		return nil
	})
}

func (s *GoalService) goalFor(ctx context.Context, repos *repository.Set, actor Actor, goalID string) (*models.Goal, error) {
	g, err := repos.Goals.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil || !actor.canSee(g.KidID, g.ParentID) {
		return nil, ErrGoalNotFound
	}
	return g, nil
}
