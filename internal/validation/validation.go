// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Limits applied to user input
const (
	MinPasswordLength = 8
	MaxNameLength     = 100
	MinKidAge         = 3
	MaxKidAge         = 18
	MaxAmount         = 1_000_000
	MaxInterestRate   = 100
	MaxLoanMonths     = 60
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// First returns the first non-nil error, so callers can list checks in order
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(name) > MaxNameLength {
		return ValidationError{Field: "name", Message: "name is too long"}
	}
	return nil
}

// ValidateRequired checks that a free-text field is present and not oversized
func ValidateRequired(field, value string, maxLen int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if maxLen > 0 && len(value) > maxLen {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen)}
	}
	return nil
}

// ValidateAge checks a kid's age
func ValidateAge(age int) error {
	if age < MinKidAge || age > MaxKidAge {
		return ValidationError{Field: "age", Message: fmt.Sprintf("age must be between %d and %d", MinKidAge, MaxKidAge)}
	}
	return nil
}

// ValidateAmount checks a money amount that must be strictly positive
func ValidateAmount(field string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ValidationError{Field: field, Message: field + " must be greater than 0"}
	}
	if amount > MaxAmount {
		return ValidationError{Field: field, Message: field + " is too large"}
	}
	if d := decimal.NewFromFloat(amount); !d.Equal(d.Round(2)) {
		return ValidationError{Field: field, Message: field + " cannot have more than 2 decimal places"}
	}
	return nil
}

// ValidateOptionalAmount checks a money amount that may be zero
func ValidateOptionalAmount(field string, amount float64) error {
	if amount == 0 {
		return nil
	}
	if amount < 0 {
		return ValidationError{Field: field, Message: field + " cannot be negative"}
	}
	return ValidateAmount(field, amount)
}

// ValidateInterestRate checks an annual percentage rate
func ValidateInterestRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > MaxInterestRate {
		return ValidationError{Field: "interest_rate", Message: fmt.Sprintf("interest_rate must be between 0 and %d", MaxInterestRate)}
	}
	return nil
}

// ValidateLoanDuration checks a loan term in months
func ValidateLoanDuration(months int) error {
	if months < 1 || months > MaxLoanMonths {
		return ValidationError{Field: "duration_months", Message: fmt.Sprintf("duration_months must be between 1 and %d", MaxLoanMonths)}
	}
	return nil
}

// ValidateOneOf checks value against an allowed set
func ValidateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ValidationError{Field: field, Message: fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))}
}
