package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/models"
)

func TestLedgerRecordsAfterCommit(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 0)

	rec := &mockRecorder{}
	rec.On("Record", mock.Anything, mock.MatchedBy(func(txs []models.Transaction) bool {
		return len(txs) == 2 && txs[0].Category == models.CategoryTask && txs[1].Category == models.CategoryGoal
	})).Return(errors.New("cluster down")).Once()
	ledger := NewLedger(f.db, rec, zerolog.Nop())

	err := ledger.Run(f.ctx, func(tx *LedgerTx) error {
		if err := tx.Credit(f.ctx, kid.ID, 30, Entry{Description: "Chores", Category: models.CategoryTask}); err != nil {
			return err
		}
		return tx.MoveToSavings(f.ctx, kid.ID, 10, Entry{Description: "Save", Category: models.CategoryGoal})
	})
	// recorder failures never undo a committed action
	require.NoError(t, err)
	rec.AssertExpectations(t)

	w := f.wallet(t, kid.ID)
	assert.Equal(t, 20.0, w.Balance)
	assert.Equal(t, 10.0, w.TotalSaved)
}

func TestLedgerRollbackRecordsNothing(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 5)

	rec := &mockRecorder{}
	ledger := NewLedger(f.db, rec, zerolog.Nop())

	err := ledger.Run(f.ctx, func(tx *LedgerTx) error {
		if err := tx.Credit(f.ctx, kid.ID, 30, Entry{Description: "Chores", Category: models.CategoryTask}); err != nil {
			return err
		}
		return tx.Debit(f.ctx, kid.ID, 100, Entry{Description: "Too much", Category: models.CategoryPenalty})
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	rec.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	assert.Equal(t, 5.0, f.wallet(t, kid.ID).Balance)
	assert.Len(t, f.transactions(t, kid.ID), 1)
}

func TestLedgerUnknownWallet(t *testing.T) {
	f := newFixture(t)
	ledger := NewLedger(f.db, nil, zerolog.Nop())

	err := ledger.Run(f.ctx, func(tx *LedgerTx) error {
		return tx.Debit(f.ctx, "missing", 1, Entry{Description: "x", Category: models.CategoryPenalty})
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
