package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// AuthHandler handles sign-up, sign-in and identity requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type kidLoginRequest struct {
	ParentEmail string `json:"parent_email"`
	KidName     string `json:"kid_name"`
	PIN         string `json:"pin"`
}

type oauthRequest struct {
	Code string `json:"code"`
}

// Signup registers a parent account and signs them in
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	res, err := h.authService.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Login signs a parent in with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// KidLogin signs a kid in with their parent's email, their name and PIN
func (h *AuthHandler) KidLogin(w http.ResponseWriter, r *http.Request) {
	var req kidLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	res, err := h.authService.KidLogin(r.Context(), req.ParentEmail, req.KidName, req.PIN)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GoogleLogin exchanges a Google authorization code for a parent session
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req oauthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	if req.Code == "" {
		respondWithError(w, r, badRequest("code is required"))
		return
	}
	res, err := h.authService.GoogleLogin(r.Context(), req.Code)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Me returns the caller's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.IsKid() {
		kid, err := h.authService.Kid(r.Context(), actor)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, kid)
		return
	}

	user, err := h.authService.Parent(r.Context(), actor.ParentID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
