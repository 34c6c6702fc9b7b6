package models

import "time"

// Transaction directions
const (
	TxCredit = "credit"
	TxDebit  = "debit"
)

// Transaction categories
const (
	CategoryInitial    = "initial"
	CategoryTask       = "task"
	CategoryPenalty    = "penalty"
	CategoryGoal       = "goal"
	CategoryGoalRefund = "goal_refund"
	CategorySIP        = "sip"
	CategoryLoan       = "loan"
	CategoryEMI        = "emi"
)

// Wallet holds a kid's spendable balance and lifetime totals
type Wallet struct {
	ID          string    `json:"id"`
	KidID       string    `json:"kid_id"`
	Balance     float64   `json:"balance"`
	TotalEarned float64   `json:"total_earned"`
	TotalSpent  float64   `json:"total_spent"`
	TotalSaved  float64   `json:"total_saved"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transaction is an immutable wallet log entry
type Transaction struct {
	ID          string    `json:"id"`
	KidID       string    `json:"kid_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ReferenceID *string   `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}
