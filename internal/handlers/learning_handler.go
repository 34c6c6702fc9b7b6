package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// LearningHandler serves lessons and records quiz results
type LearningHandler struct {
	learningService *service.LearningService
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(learningService *service.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

type completeLessonRequest struct {
	KidID   string `json:"kid_id"`
	StoryID string `json:"story_id"`
	Score   *int   `json:"score"`
	Answers []int  `json:"answers"`
}

// ListStories returns every lesson
func (h *LearningHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.learningService.Stories())
}

// GetStory returns one lesson
func (h *LearningHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.learningService.Story(r.PathValue("story_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// CompleteLesson records a quiz result
func (h *LearningHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	var req completeLessonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	out, err := h.learningService.Complete(r.Context(), actorFromRequest(r), service.LessonResult{
		KidID:   req.KidID,
		StoryID: req.StoryID,
		Score:   req.Score,
		Answers: req.Answers,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Progress returns a kid's lesson records
func (h *LearningHandler) Progress(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	progress, err := h.learningService.Progress(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
