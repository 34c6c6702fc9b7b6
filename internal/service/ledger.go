package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"kidsmoney/internal/activity"
	"kidsmoney/internal/database"
	"kidsmoney/internal/finance"
	"kidsmoney/internal/models"
	"kidsmoney/internal/repository"
)

// Ledger runs financial actions. Each Run is one database transaction in which
// wallet mutations, log entries and progress changes commit or roll back together.
type Ledger struct {
	db       *database.DB
	recorder activity.Recorder
	logger   zerolog.Logger
}

// NewLedger creates a ledger. Posted entries go to recorder after each commit.
func NewLedger(db *database.DB, recorder activity.Recorder, logger zerolog.Logger) *Ledger {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Ledger{db: db, recorder: recorder, logger: logger}
}

// LedgerTx is the view of the ledger inside one transaction
type LedgerTx struct {
	Repos  *repository.Set
	posted []models.Transaction
}

// Run executes fn in a transaction
func (l *Ledger) Run(ctx context.Context, fn func(tx *LedgerTx) error) error {
	var ltx *LedgerTx
	err := l.db.WithTx(ctx, func(tx *database.Tx) error {
		ltx = &LedgerTx{Repos: repository.NewSet(tx)}
		return fn(ltx)
	})
	if err != nil {
		return err
	}

	if len(ltx.posted) > 0 {
		for _, t := range ltx.posted {
			l.logger.Debug().
				Str("kid_id", t.KidID).
				Str("type", t.Type).
				Str("category", t.Category).
				Float64("amount", t.Amount).
				Msg("transaction posted")
		}
		if err := l.recorder.Record(ctx, ltx.posted); err != nil {
			l.logger.Warn().Err(err).Int("count", len(ltx.posted)).Msg("failed to record activity")
		}
	}
	return nil
}

// Entry describes the log line written alongside a wallet mutation
type Entry struct {
	Description string
	Category    string
	ReferenceID string
}

// Credit adds amount to the kid's balance
func (tx *LedgerTx) Credit(ctx context.Context, kidID string, amount float64, e Entry) error {
	ok, err := tx.Repos.Wallets.Credit(ctx, kidID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWalletNotFound
	}
	return tx.post(ctx, kidID, models.TxCredit, amount, e)
}

// Debit removes amount from the kid's balance, failing with ErrInsufficientFunds when short
func (tx *LedgerTx) Debit(ctx context.Context, kidID string, amount float64, e Entry) error {
	ok, err := tx.Repos.Wallets.Debit(ctx, kidID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return tx.whyNotDebited(ctx, kidID)
	}
	return tx.post(ctx, kidID, models.TxDebit, amount, e)
}

// MoveToSavings moves amount from the balance into savings under the same guard as Debit
func (tx *LedgerTx) MoveToSavings(ctx context.Context, kidID string, amount float64, e Entry) error {
	ok, err := tx.Repos.Wallets.MoveToSavings(ctx, kidID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return tx.whyNotDebited(ctx, kidID)
	}
	return tx.post(ctx, kidID, models.TxDebit, amount, e)
}

// ReleaseSavings returns amount from savings to the balance
func (tx *LedgerTx) ReleaseSavings(ctx context.Context, kidID string, amount float64, e Entry) error {
	ok, err := tx.Repos.Wallets.ReleaseSavings(ctx, kidID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWalletNotFound
	}
	return tx.post(ctx, kidID, models.TxCredit, amount, e)
}

// Reward grants XP and shifts the credit score
func (tx *LedgerTx) Reward(ctx context.Context, kidID string, xp, creditDelta int) error {
	return tx.Repos.Kids.ApplyProgress(ctx, kidID, xp, creditDelta)
}

func (tx *LedgerTx) whyNotDebited(ctx context.Context, kidID string) error {
	w, err := tx.Repos.Wallets.GetByKidID(ctx, kidID)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrWalletNotFound
	}
	return ErrInsufficientFunds
}

func (tx *LedgerTx) post(ctx context.Context, kidID, typ string, amount float64, e Entry) error {
	t := models.Transaction{
		KidID:       kidID,
		Type:        typ,
		Amount:      finance.Round2(amount),
		Description: e.Description,
		Category:    e.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if e.ReferenceID != "" {
		ref := e.ReferenceID
		t.ReferenceID = &ref
	}
	if err := tx.Repos.Transactions.CreateTransaction(ctx, &t); err != nil {
		return fmt.Errorf("failed to log %s: %w", e.Category, err)
	}
	tx.posted = append(tx.posted, t)
	return nil
}
