package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/models"
)

func TestWalletGet(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 25)

	w, err := f.svc.Wallets.Get(f.ctx, f.actor, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, w.Balance)

	w, err = f.svc.Wallets.Get(f.ctx, KidActor(kid.ID, f.parent.ID), kid.ID)
	require.NoError(t, err)
	assert.Equal(t, kid.ID, w.KidID)

	_, err = f.svc.Wallets.Get(f.ctx, f.otherParent(t), kid.ID)
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestWalletTransactionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 100)

	goal, err := f.svc.Goals.Create(f.ctx, f.actor, NewGoal{KidID: kid.ID, Title: "Bike", TargetAmount: 500})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.svc.Goals.Contribute(f.ctx, f.actor, goal.ID, 5)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: 4},
		{name: "negative falls back to default", limit: -3, want: 4},
		{name: "limited", limit: 2, want: 2},
		{name: "capped", limit: MaxTransactionLimit + 50, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := f.svc.Wallets.Transactions(f.ctx, f.actor, kid.ID, tt.limit)
			require.NoError(t, err)
			assert.Len(t, txns, tt.want)
		})
	}

	txns, err := f.svc.Wallets.Transactions(f.ctx, f.actor, kid.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGoal, txns[0].Category)
	assert.Equal(t, models.CategoryInitial, txns[len(txns)-1].Category)
	assert.Equal(t, 5.0, txns[0].Amount)
}
