package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kidsmoney/internal/database"
	"kidsmoney/internal/finance"
	"kidsmoney/internal/models"
)

// WalletRepository handles balance storage. Every mutation is a single
// UPDATE so a balance can never be read and written in separate steps.
type WalletRepository struct {
	db database.DBTX
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db database.DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletColumns = "id, kid_id, balance, total_earned, total_spent, total_saved, updated_at"

// CreateWallet inserts a wallet row
func (r *WalletRepository) CreateWallet(ctx context.Context, w *models.Wallet) error {
	if w.ID == "" {
		w.ID = newID()
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = now()
	}
	query := "INSERT INTO wallets (" + walletColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.KidID, w.Balance, w.TotalEarned, w.TotalSpent, w.TotalSaved, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetByKidID retrieves the wallet for a kid
func (r *WalletRepository) GetByKidID(ctx context.Context, kidID string) (*models.Wallet, error) {
	w, err := scanWallet(r.db.QueryRowContext(ctx, "SELECT "+walletColumns+" FROM wallets WHERE kid_id = ?", kidID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// AllWallets returns every wallet
func (r *WalletRepository) AllWallets(ctx context.Context) ([]models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+walletColumns+" FROM wallets ORDER BY kid_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

// Credit adds amount to the balance and lifetime earnings.
// It returns false when the kid has no wallet.
func (r *WalletRepository) Credit(ctx context.Context, kidID string, amount float64) (bool, error) {
	return r.move(ctx, "credit", "balance + ?", "total_earned", "+", false, amount, kidID)
}

// Debit subtracts amount from the balance if it is covered.
// It returns false, without changing anything, when the balance is short or the wallet is missing.
func (r *WalletRepository) Debit(ctx context.Context, kidID string, amount float64) (bool, error) {
	return r.move(ctx, "debit", "balance - ?", "total_spent", "+", true, amount, kidID)
}

// MoveToSavings moves amount from the balance into total_saved under the same guard as Debit
func (r *WalletRepository) MoveToSavings(ctx context.Context, kidID string, amount float64) (bool, error) {
	return r.move(ctx, "save", "balance - ?", "total_saved", "+", true, amount, kidID)
}

// ReleaseSavings returns amount from total_saved to the balance
func (r *WalletRepository) ReleaseSavings(ctx context.Context, kidID string, amount float64) (bool, error) {
	return r.move(ctx, "release", "balance + ?", "total_saved", "-", false, amount, kidID)
}

// move applies one balance change and the matching running total in a single UPDATE.
// Stored values are kept in whole cents, and a guarded move compares the balance in
// cents so it agrees with what GetByKidID reports.
func (r *WalletRepository) move(ctx context.Context, op, balanceExpr, total, sign string, guarded bool, amount float64, kidID string) (bool, error) {
	amount = finance.Round2(amount)
	dialect := r.db.GetDialect()
	query := `
		UPDATE wallets
		SET balance = ` + dialect.CentsExpr(balanceExpr) + `,
		    ` + total + ` = ` + dialect.CentsExpr(total+" "+sign+" ?") + `,
		    updated_at = ?
		WHERE kid_id = ?`
	args := []interface{}{amount, amount, now(), kidID}
	if guarded {
		query += " AND " + dialect.CentsExpr("balance") + " >= ?"
		args = append(args, amount)
	}
	return r.exec(ctx, op, query, args...)
}

func (r *WalletRepository) exec(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s wallet: %w", op, err)
	}
	return affected(res)
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	w := &models.Wallet{}
	err := row.Scan(&w.ID, &w.KidID, &w.Balance, &w.TotalEarned, &w.TotalSpent, &w.TotalSaved, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	// column arithmetic is binary floating point; present cents
	w.Balance = finance.Round2(w.Balance)
	w.TotalEarned = finance.Round2(w.TotalEarned)
	w.TotalSpent = finance.Round2(w.TotalSpent)
	w.TotalSaved = finance.Round2(w.TotalSaved)
	return w, nil
}
