package models

import "time"

// Goal statuses
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// SIP statuses
const (
	SIPActive = "active"
	SIPPaused = "paused"
)

// Loan statuses
const (
	LoanPending   = "pending"
	LoanActive    = "active"
	LoanCompleted = "completed"
)

// Goal is a savings target funded from the wallet
type Goal struct {
	ID           string    `json:"id"`
	KidID        string    `json:"kid_id"`
	ParentID     string    `json:"parent_id"`
	Title        string    `json:"title"`
	TargetAmount float64   `json:"target_amount"`
	SavedAmount  float64   `json:"saved_amount"`
	Deadline     *string   `json:"deadline"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// SIP is a simulated systematic investment plan
type SIP struct {
	ID            string    `json:"id"`
	KidID         string    `json:"kid_id"`
	ParentID      string    `json:"parent_id"`
	Amount        float64   `json:"amount"`
	InterestRate  float64   `json:"interest_rate"`
	Frequency     string    `json:"frequency"`
	TotalInvested float64   `json:"total_invested"`
	CurrentValue  float64   `json:"current_value"`
	PaymentsMade  int       `json:"payments_made"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Loan is a simulated amortising loan repaid in fixed instalments
type Loan struct {
	ID               string    `json:"id"`
	KidID            string    `json:"kid_id"`
	ParentID         string    `json:"parent_id"`
	Principal        float64   `json:"principal"`
	InterestRate     float64   `json:"interest_rate"`
	DurationMonths   int       `json:"duration_months"`
	EMIAmount        float64   `json:"emi_amount"`
	TotalPayable     float64   `json:"total_payable"`
	RemainingBalance float64   `json:"remaining_balance"`
	PaymentsMade     int       `json:"payments_made"`
	Purpose          string    `json:"purpose"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsOpen reports whether the loan is awaiting approval or still being repaid
func (l *Loan) IsOpen() bool {
	return l.Status == LoanPending || l.Status == LoanActive
}
