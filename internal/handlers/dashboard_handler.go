package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// DashboardHandler serves kid summaries and achievements
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Dashboard returns the one-call summary of a kid
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	d, err := h.dashboardService.Dashboard(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Achievements returns the caller's badges
func (h *DashboardHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	a, err := h.dashboardService.Achievements(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
