package handlers

import (
	"net/http"

	"kidsmoney/internal/service"
)

// SavingsHandler handles goals and the SIP and loan simulators
type SavingsHandler struct {
	goalService *service.GoalService
	sipService  *service.SIPService
	loanService *service.LoanService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(goals *service.GoalService, sips *service.SIPService, loans *service.LoanService) *SavingsHandler {
	return &SavingsHandler{
		goalService: goals,
		sipService:  sips,
		loanService: loans,
	}
}

type createGoalRequest struct {
	KidID        string  `json:"kid_id"`
	Title        string  `json:"title"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     *string `json:"deadline"`
}

type contributeRequest struct {
	Amount float64 `json:"amount"`
}

type createSIPRequest struct {
	KidID        string   `json:"kid_id"`
	Amount       float64  `json:"amount"`
	InterestRate *float64 `json:"interest_rate"`
	Frequency    string   `json:"frequency"`
}

type loanRequest struct {
	KidID          string   `json:"kid_id"`
	Amount         float64  `json:"amount"`
	Purpose        string   `json:"purpose"`
	DurationMonths *int     `json:"duration_months"`
	InterestRate   *float64 `json:"interest_rate"`
}

// CreateGoal opens a savings goal
func (h *SavingsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	goal, err := h.goalService.Create(r.Context(), actorFromRequest(r), service.NewGoal{
		KidID:        req.KidID,
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// ListGoals returns a kid's goals
func (h *SavingsHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	goals, err := h.goalService.List(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// ContributeGoal moves money from the wallet into a goal
func (h *SavingsHandler) ContributeGoal(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	goal, err := h.goalService.Contribute(r.Context(), actorFromRequest(r), r.PathValue("goal_id"), req.Amount)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal removes a goal and refunds its savings
func (h *SavingsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.goalService.Delete(r.Context(), actorFromRequest(r), r.PathValue("goal_id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Goal deleted and savings returned"})
}

// CreateSIP starts a systematic investment plan
func (h *SavingsHandler) CreateSIP(w http.ResponseWriter, r *http.Request) {
	var req createSIPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	sip, err := h.sipService.Create(r.Context(), actorFromRequest(r), service.NewSIP{
		KidID:        req.KidID,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Frequency:    req.Frequency,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sip)
}

// ListSIPs returns a kid's SIPs
func (h *SavingsHandler) ListSIPs(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	sips, err := h.sipService.List(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sips)
}

// PaySIP makes one SIP payment
func (h *SavingsHandler) PaySIP(w http.ResponseWriter, r *http.Request) {
	sip, err := h.sipService.Pay(r.Context(), actorFromRequest(r), r.PathValue("sip_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sip)
}

// ToggleSIP pauses or resumes a SIP
func (h *SavingsHandler) ToggleSIP(w http.ResponseWriter, r *http.Request) {
	sip, err := h.sipService.Toggle(r.Context(), actorFromRequest(r), r.PathValue("sip_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sip)
}

// RequestLoan files a loan request. Kids always request for themselves.
func (h *SavingsHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	loan, err := h.loanService.Request(r.Context(), actorFromRequest(r), service.NewLoan{
		KidID:          req.KidID,
		Amount:         req.Amount,
		Purpose:        req.Purpose,
		DurationMonths: req.DurationMonths,
		InterestRate:   req.InterestRate,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// ListLoans returns a kid's loans
func (h *SavingsHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	loans, err := h.loanService.List(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// ApproveLoan disburses a pending loan
func (h *SavingsHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanService.Approve(r.Context(), actorFromRequest(r), r.PathValue("loan_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// PayLoan makes one EMI payment
func (h *SavingsHandler) PayLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanService.Pay(r.Context(), actorFromRequest(r), r.PathValue("loan_id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}
