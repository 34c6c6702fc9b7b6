package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
)

// TransactionRepository appends to and reads the wallet log. Rows are never updated.
type TransactionRepository struct {
	db database.DBTX
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db database.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, kid_id, type, amount, description, category, reference_id, created_at"

// CreateTransaction appends a log entry
func (r *TransactionRepository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	if t.ID == "" {
		t.ID = NewTransactionID(t.CreatedAt)
	}
	query := "INSERT INTO transactions (" + transactionColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.KidID, t.Type, t.Amount, t.Description, t.Category, t.ReferenceID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListByKid returns the newest limit entries for a kid, newest first
func (r *TransactionRepository) ListByKid(ctx context.Context, kidID string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE kid_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.list(ctx, query, kidID, limit)
}

// AllTransactions returns the complete log in creation order
func (r *TransactionRepository) AllTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.list(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY created_at ASC, id ASC")
}

// CountByCategory counts a kid's entries in one category
func (r *TransactionRepository) CountByCategory(ctx context.Context, kidID, category string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE kid_id = ? AND category = ?", kidID, category,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var ref sql.NullString
		if err := rows.Scan(&t.ID, &t.KidID, &t.Type, &t.Amount, &t.Description, &t.Category, &ref, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if ref.Valid {
			t.ReferenceID = &ref.String
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
