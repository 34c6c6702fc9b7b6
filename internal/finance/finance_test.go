package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		want      float64
	}{
		{"zero interest", 1200, 0, 12, 100.00},
		{"twelve percent", 1000, 12, 12, 88.85},
		{"default loan terms", 500, 5, 6, 84.55},
		{"no duration", 100, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EMI(tt.principal, tt.rate, tt.months))
		})
	}
}

func TestLoanAmortisesToZero(t *testing.T) {
	emi := EMI(1000, 12, 12)
	remaining := TotalPayable(emi, 12)
	assert.Equal(t, 1066.20, remaining)

	for i := 0; i < 12; i++ {
		pay := emi
		if remaining < pay {
			pay = remaining
		}
		remaining = Sub(remaining, pay)
	}
	assert.Equal(t, 0.0, remaining)
}

func TestSIPValue(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		rate     float64
		payments int
		want     float64
	}{
		{"zero rate three payments", 100, 0, 3, 300},
		{"twelve percent one payment", 100, 12, 1, 101.00},
		{"twelve percent two payments", 100, 12, 2, 203.01},
		{"no payments", 100, 8, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SIPValue(tt.amount, tt.rate, tt.payments))
		})
	}
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 0.3, Add(0.1, 0.2))
	assert.Equal(t, 0.1, Sub(0.3, 0.2))
	assert.Equal(t, 2.68, Round2(2.675))
}
