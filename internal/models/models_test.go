package models

import (
	"testing"
)

func TestKidWithoutPIN(t *testing.T) {
	kid := Kid{ID: "k1", Name: "Asha", PIN: "4821"}

	public := kid.WithoutPIN()
	if public.PIN != "" {
		t.Errorf("WithoutPIN() kept pin %q", public.PIN)
	}
	if kid.PIN != "4821" {
		t.Error("WithoutPIN() must not modify the receiver")
	}
}

func TestValidTheme(t *testing.T) {
	tests := []struct {
		theme string
		want  bool
	}{
		{ThemeBoy, true},
		{ThemeGirl, true},
		{ThemeNeutral, true},
		{"", false},
		{"dark", false},
	}

	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			if got := ValidTheme(tt.theme); got != tt.want {
				t.Errorf("ValidTheme(%q) = %v, want %v", tt.theme, got, tt.want)
			}
		})
	}
}

func TestTaskIsOpen(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{TaskPending, true},
		{TaskCompleted, true},
		{TaskApproved, false},
		{TaskRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			task := Task{Status: tt.status}
			if got := task.IsOpen(); got != tt.want {
				t.Errorf("Task{Status: %q}.IsOpen() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestLoanIsOpen(t *testing.T) {
	for status, want := range map[string]bool{
		LoanPending:   true,
		LoanActive:    true,
		LoanCompleted: false,
	} {
		loan := Loan{Status: status}
		if got := loan.IsOpen(); got != want {
			t.Errorf("Loan{Status: %q}.IsOpen() = %v, want %v", status, got, want)
		}
	}
}
