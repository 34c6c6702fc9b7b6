package models

import "time"

// LearningProgress records the best quiz score a kid has reached on a story
type LearningProgress struct {
	ID          string    `json:"id"`
	KidID       string    `json:"kid_id"`
	StoryID     string    `json:"story_id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}
