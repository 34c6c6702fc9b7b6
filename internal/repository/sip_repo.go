package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
)

// SIPRepository handles database operations for SIPs
type SIPRepository struct {
	db database.DBTX
}

// NewSIPRepository creates a new SIP repository
func NewSIPRepository(db database.DBTX) *SIPRepository {
	return &SIPRepository{db: db}
}

const sipColumns = "id, kid_id, parent_id, amount, interest_rate, frequency, total_invested, current_value, payments_made, status, created_at"

// CreateSIP inserts a SIP
func (r *SIPRepository) CreateSIP(ctx context.Context, s *models.SIP) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now()
	}
	if s.Status == "" {
		s.Status = models.SIPActive
	}
	query := "INSERT INTO sips (" + sipColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.KidID, s.ParentID, s.Amount, s.InterestRate, s.Frequency,
		s.TotalInvested, s.CurrentValue, s.PaymentsMade, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sip: %w", err)
	}
	return nil
}

// GetSIPByID retrieves a SIP by ID
func (r *SIPRepository) GetSIPByID(ctx context.Context, id string) (*models.SIP, error) {
	s, err := scanSIP(r.db.QueryRowContext(ctx, "SELECT "+sipColumns+" FROM sips WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// ListByKid returns a kid's SIPs, newest first
func (r *SIPRepository) ListByKid(ctx context.Context, kidID string) ([]models.SIP, error) {
	return r.list(ctx, "SELECT "+sipColumns+" FROM sips WHERE kid_id = ? ORDER BY created_at DESC", kidID)
}

// AllSIPs returns every SIP
func (r *SIPRepository) AllSIPs(ctx context.Context) ([]models.SIP, error) {
	return r.list(ctx, "SELECT "+sipColumns+" FROM sips ORDER BY created_at ASC")
}

// RecordPayment stores the totals after a payment. The row must still be active
// with prevPayments payments, so two concurrent payments cannot both apply.
func (r *SIPRepository) RecordPayment(ctx context.Context, s *models.SIP, prevPayments int) (bool, error) {
	query := `
		UPDATE sips
		SET total_invested = ?, current_value = ?, payments_made = ?
		WHERE id = ? AND status = ? AND payments_made = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		s.TotalInvested, s.CurrentValue, s.PaymentsMade, s.ID, models.SIPActive, prevPayments,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record sip payment: %w", err)
	}
	return affected(res)
}

// Transition moves a SIP from one status to another
func (r *SIPRepository) Transition(ctx context.Context, id, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE sips SET status = ? WHERE id = ? AND status = ?", to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update sip status: %w", err)
	}
	return affected(res)
}

// CountByStatus counts a kid's SIPs in one status
func (r *SIPRepository) CountByStatus(ctx context.Context, kidID, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sips WHERE kid_id = ? AND status = ?", kidID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count sips: %w", err)
	}
	return n, nil
}

func (r *SIPRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.SIP, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sips: %w", err)
	}
	defer rows.Close()

	sips := []models.SIP{}
	for rows.Next() {
		s, err := scanSIP(rows)
		if err != nil {
			return nil, err
		}
		sips = append(sips, *s)
	}
	return sips, rows.Err()
}

func scanSIP(row rowScanner) (*models.SIP, error) {
	s := &models.SIP{}
	err := row.Scan(
		&s.ID, &s.KidID, &s.ParentID, &s.Amount, &s.InterestRate, &s.Frequency,
		&s.TotalInvested, &s.CurrentValue, &s.PaymentsMade, &s.Status, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sip: %w", err)
	}
	return s, nil
}
