package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// TaskHandler handles task assignment and the approval workflow
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	KidID            string  `json:"kid_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	RewardAmount     float64 `json:"reward_amount"`
	PenaltyAmount    float64 `json:"penalty_amount"`
	Frequency        string  `json:"frequency"`
	ApprovalRequired *bool   `json:"approval_required"`
}

// CreateTask assigns a task to a kid
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	task, err := h.taskService.Create(r.Context(), actorFromRequest(r), service.NewTask{
		KidID:            req.KidID,
		Title:            req.Title,
		Description:      req.Description,
		RewardAmount:     req.RewardAmount,
		PenaltyAmount:    req.PenaltyAmount,
		Frequency:        req.Frequency,
		ApprovalRequired: req.ApprovalRequired,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ListTasks returns a kid's tasks, optionally filtered by ?status=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	tasks, err := h.taskService.List(r.Context(), actor, kidIDFor(r, actor), r.URL.Query().Get("status"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CompleteTask marks a pending task as done
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Complete(r.Context(), actorFromRequest(r), r.PathValue("task_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ApproveTask pays out a completed task
func (h *TaskHandler) ApproveTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Approve(r.Context(), actorFromRequest(r), r.PathValue("task_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// RejectTask turns down a completed task
func (h *TaskHandler) RejectTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Reject(r.Context(), actorFromRequest(r), r.PathValue("task_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
