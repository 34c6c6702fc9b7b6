package credentials

import "testing"

func TestGeneratePIN(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN() error = %v", err)
		}
		if !ValidPIN(pin) {
			t.Errorf("GeneratePIN() = %q, not a %d digit pin", pin, PINLength)
		}
		seen[pin] = true
	}
	// 200 draws from 10^4 values should not collapse onto a handful
	if len(seen) < 150 {
		t.Errorf("GeneratePIN() produced only %d distinct pins in 200 draws", len(seen))
	}
}

func TestValidPIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			if got := ValidPIN(tt.pin); got != tt.want {
				t.Errorf("ValidPIN(%q) = %v, want %v", tt.pin, got, tt.want)
			}
		})
	}
}
