package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/models"
)

func TestSIPPayments(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		payments  int
		wantValue float64
	}{
		{"zero rate", 0, 3, 300},
		{"twelve percent single payment", 12, 1, 101.00},
		{"twelve percent two payments", 12, 2, 203.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			kid := f.kid(t, "Asha", 500)

			sip, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 100, InterestRate: floatPtr(tt.rate)})
			require.NoError(t, err)
			assert.Equal(t, DefaultSIPFrequency, sip.Frequency)

			for i := 0; i < tt.payments; i++ {
				sip, err = f.svc.SIPs.Pay(f.ctx, f.actor, sip.ID)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.payments, sip.PaymentsMade)
			assert.Equal(t, float64(100*tt.payments), sip.TotalInvested)
			assert.Equal(t, tt.wantValue, sip.CurrentValue)

			stored, err := f.repos.SIPs.GetSIPByID(f.ctx, sip.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, stored.CurrentValue)

			w := f.wallet(t, kid.ID)
			assert.Equal(t, 500-float64(100*tt.payments), w.Balance)
			assert.Equal(t, float64(100*tt.payments), w.TotalSaved)

			reloaded := f.reloadKid(t, kid.ID)
			assert.Equal(t, 15*tt.payments, reloaded.XP)
			assert.Equal(t, 500+5*tt.payments, reloaded.CreditScore)
		})
	}
}

func TestSIPDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 0)

	sip, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 10, Frequency: FrequencyWeekly})
	require.NoError(t, err)
	assert.Equal(t, DefaultSIPRate, sip.InterestRate)
	assert.Equal(t, models.SIPActive, sip.Status)

	_, err = f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 10, Frequency: FrequencyDaily})
	assert.Error(t, err)

	_, err = f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 0})
	assert.Error(t, err)

	_, err = f.svc.SIPs.Create(f.ctx, KidActor(kid.ID, f.parent.ID), NewSIP{KidID: kid.ID, Amount: 10})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSIPPayRequiresFunds(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 50)

	sip, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 80})
	require.NoError(t, err)

	_, err = f.svc.SIPs.Pay(f.ctx, KidActor(kid.ID, f.parent.ID), sip.ID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	stored, err := f.repos.SIPs.GetSIPByID(f.ctx, sip.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.PaymentsMade)
	assert.Equal(t, 50.0, f.wallet(t, kid.ID).Balance)
}

func TestSIPToggle(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 100)

	sip, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 10})
	require.NoError(t, err)

	paused, err := f.svc.SIPs.Toggle(f.ctx, f.actor, sip.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SIPPaused, paused.Status)

	_, err = f.svc.SIPs.Pay(f.ctx, f.actor, sip.ID)
	assert.ErrorIs(t, err, ErrSIPNotActive)
	assert.Equal(t, 100.0, f.wallet(t, kid.ID).Balance)

	resumed, err := f.svc.SIPs.Toggle(f.ctx, f.actor, sip.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SIPActive, resumed.Status)

	_, err = f.svc.SIPs.Pay(f.ctx, f.actor, sip.ID)
	require.NoError(t, err)

	_, err = f.svc.SIPs.Toggle(f.ctx, KidActor(kid.ID, f.parent.ID), sip.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
