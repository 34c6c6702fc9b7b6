// Package finance holds the interest maths behind the SIP and loan simulators.
// All results are rounded half away from zero to two decimal places.
package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to two decimal places
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Add returns a+b rounded to cents without binary float drift
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Sub returns a-b rounded to cents without binary float drift
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// monthlyRate converts an annual percentage to a monthly fraction
func monthlyRate(annualPercent float64) float64 {
	return annualPercent / 100 / 12
}

// EMI returns the fixed monthly instalment that amortises principal over months
func EMI(principal, annualPercent float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := monthlyRate(annualPercent)
	if r == 0 {
		return Round2(principal / float64(months))
	}
	growth := math.Pow(1+r, float64(months))
	return Round2(principal * r * growth / (growth - 1))
}

// TotalPayable is the sum of all instalments for a loan with the given EMI
func TotalPayable(emi float64, months int) float64 {
	return decimal.NewFromFloat(emi).Mul(decimal.NewFromInt(int64(months))).Round(2).InexactFloat64()
}

// SIPValue is the future value of payments deposits of amount at the start of each month
func SIPValue(amount, annualPercent float64, payments int) float64 {
	if payments <= 0 {
		return 0
	}
	r := monthlyRate(annualPercent)
	if r == 0 {
		return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(int64(payments))).Round(2).InexactFloat64()
	}
	return Round2(amount * (math.Pow(1+r, float64(payments)) - 1) / r * (1 + r))
}
