package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// KidHandler manages kid profiles for a parent
type KidHandler struct {
	kidService *service.KidService
}

// NewKidHandler creates a new kid handler
func NewKidHandler(kidService *service.KidService) *KidHandler {
	return &KidHandler{kidService: kidService}
}

type createKidRequest struct {
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	Avatar          string  `json:"avatar"`
	Grade           *string `json:"grade"`
	UITheme         string  `json:"ui_theme"`
	PIN             string  `json:"pin"`
	StartingBalance float64 `json:"starting_balance"`
}

type updateKidRequest struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Avatar  *string `json:"avatar"`
	Grade   *string `json:"grade"`
	UITheme *string `json:"ui_theme"`
	PIN     *string `json:"pin"`
}

// CreateKid adds a kid to the caller's family
func (h *KidHandler) CreateKid(w http.ResponseWriter, r *http.Request) {
	var req createKidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	kid, err := h.kidService.Create(r.Context(), actorFromRequest(r), service.NewKid{
		Name:            req.Name,
		Age:             req.Age,
		Avatar:          req.Avatar,
		Grade:           req.Grade,
		UITheme:         req.UITheme,
		PIN:             req.PIN,
		StartingBalance: req.StartingBalance,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// ListKids returns the caller's kids
func (h *KidHandler) ListKids(w http.ResponseWriter, r *http.Request) {
	kids, err := h.kidService.List(r.Context(), actorFromRequest(r))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kids)
}

// GetKid returns one kid
func (h *KidHandler) GetKid(w http.ResponseWriter, r *http.Request) {
	kid, err := h.kidService.Get(r.Context(), actorFromRequest(r), r.PathValue("kid_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// UpdateKid changes the fields present in the body
func (h *KidHandler) UpdateKid(w http.ResponseWriter, r *http.Request) {
	var req updateKidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	kid, err := h.kidService.Update(r.Context(), actorFromRequest(r), r.PathValue("kid_id"), service.KidChanges{
		Name:    req.Name,
		Age:     req.Age,
		Avatar:  req.Avatar,
		Grade:   req.Grade,
		UITheme: req.UITheme,
		PIN:     req.PIN,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// DeleteKid removes a kid and everything recorded for them
func (h *KidHandler) DeleteKid(w http.ResponseWriter, r *http.Request) {
	if err := h.kidService.Delete(r.Context(), actorFromRequest(r), r.PathValue("kid_id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Kid and all related data deleted"})
}
