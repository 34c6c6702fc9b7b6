package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
)

// LoanRepository handles database operations for loans
type LoanRepository struct {
	db database.DBTX
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db database.DBTX) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = "id, kid_id, parent_id, principal, interest_rate, duration_months, emi_amount, total_payable, remaining_balance, payments_made, purpose, status, created_at"

// CreateLoan inserts a loan
func (r *LoanRepository) CreateLoan(ctx context.Context, l *models.Loan) error {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}
	if l.Status == "" {
		l.Status = models.LoanPending
	}
	query := "INSERT INTO loans (" + loanColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.KidID, l.ParentID, l.Principal, l.InterestRate, l.DurationMonths, l.EMIAmount,
		l.TotalPayable, l.RemainingBalance, l.PaymentsMade, l.Purpose, l.Status, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// GetLoanByID retrieves a loan by ID
func (r *LoanRepository) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	l, err := scanLoan(r.db.QueryRowContext(ctx, "SELECT "+loanColumns+" FROM loans WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

// ListByKid returns a kid's loans, newest first
func (r *LoanRepository) ListByKid(ctx context.Context, kidID string) ([]models.Loan, error) {
	return r.list(ctx, "SELECT "+loanColumns+" FROM loans WHERE kid_id = ? ORDER BY created_at DESC", kidID)
}

// AllLoans returns every loan
func (r *LoanRepository) AllLoans(ctx context.Context) ([]models.Loan, error) {
	return r.list(ctx, "SELECT "+loanColumns+" FROM loans ORDER BY created_at ASC")
}

// Transition moves a loan from one status to another
func (r *LoanRepository) Transition(ctx context.Context, id, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE loans SET status = ? WHERE id = ? AND status = ?", to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update loan status: %w", err)
	}
	return affected(res)
}

// RecordPayment stores the balance after an instalment. The row must still be active
// with prevPayments payments, so two concurrent payments cannot both apply.
func (r *LoanRepository) RecordPayment(ctx context.Context, l *models.Loan, prevPayments int) (bool, error) {
	query := `
		UPDATE loans
		SET remaining_balance = ?, payments_made = ?, status = ?
		WHERE id = ? AND status = ? AND payments_made = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		l.RemainingBalance, l.PaymentsMade, l.Status, l.ID, models.LoanActive, prevPayments,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record loan payment: %w", err)
	}
	return affected(res)
}

func (r *LoanRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	l := &models.Loan{}
	err := row.Scan(
		&l.ID, &l.KidID, &l.ParentID, &l.Principal, &l.InterestRate, &l.DurationMonths, &l.EMIAmount,
		&l.TotalPayable, &l.RemainingBalance, &l.PaymentsMade, &l.Purpose, &l.Status, &l.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}
	return l, nil
}
