package service

import (
	"context"
	"fmt"

	"kidsmoney/internal/content"
	"kidsmoney/internal/models"
	"kidsmoney/internal/validation"
)

// LessonResult is a finished quiz. Answers, when given, are graded against
// the story and take precedence over Score.
type LessonResult struct {
	KidID   string
	StoryID string
	Score   *int
	Answers []int
}

// LessonOutcome reports what completing a lesson did
type LessonOutcome struct {
	Message          string `json:"message"`
	Score            int    `json:"score"`
	XPEarned         int    `json:"xp_earned"`
	AlreadyCompleted bool   `json:"already_completed"`
}

// LearningService serves lessons and records quiz results
type LearningService struct {
	*core
}

// Stories returns every lesson
func (s *LearningService) Stories() []content.Story {
	return s.catalog.Stories()
}

// Story returns one lesson
func (s *LearningService) Story(id string) (*content.Story, error) {
	story := s.catalog.Story(id)
	if story == nil {
		return nil, ErrStoryNotFound
	}
	return story, nil
}

// Complete records a quiz result. XP is awarded on the first completion only;
// replays can raise the stored score but never lower it.
func (s *LearningService) Complete(ctx context.Context, actor Actor, in LessonResult) (*LessonOutcome, error) {
	if actor.IsKid() {
		in.KidID = actor.KidID
	}
	story, err := s.Story(in.StoryID)
	if err != nil {
		return nil, err
	}

	var score int
	switch {
	case in.Answers != nil:
		score = story.Grade(in.Answers)
	case in.Score != nil:
		score = *in.Score
	default:
		return nil, validation.ValidationError{Field: "score", Message: "score or answers is required"}
	}
	if score < 0 || score > len(story.Questions) {
		return nil, validation.ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("score must be between 0 and %d", len(story.Questions)),
		}
	}

	var out *LessonOutcome
	err = s.ledger.Run(ctx, func(tx *LedgerTx) error {
		if _, err := s.kidFor(ctx, tx.Repos, actor, in.KidID); err != nil {
			return err
		}

		existing, err := tx.Repos.Learning.GetProgress(ctx, in.KidID, story.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			if _, err := tx.Repos.Learning.RaiseScore(ctx, existing.ID, score); err != nil {
				return err
			}
			best := existing.Score
			if score > best {
				best = score
			}
			out = &LessonOutcome{Message: "Progress updated", Score: best, AlreadyCompleted: true}
			return nil
		}

		err = tx.Repos.Learning.CreateProgress(ctx, &models.LearningProgress{
			KidID:   in.KidID,
			StoryID: story.ID,
			Score:   score,
		})
		if err != nil {
			return err
		}
		if err := tx.Reward(ctx, in.KidID, story.RewardXP, 0); err != nil {
			return err
		}
		out = &LessonOutcome{Message: "Lesson completed!", Score: score, XPEarned: story.RewardXP}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Progress returns a kid's lesson records
func (s *LearningService) Progress(ctx context.Context, actor Actor, kidID string) ([]models.LearningProgress, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	return s.repos.Learning.ListByKid(ctx, kidID)
}
