package credentials

import (
	"crypto/rand"
	"math/big"
)

// PINLength is the number of digits in a kid login PIN
const PINLength = 4

const digits = "0123456789"

// GeneratePIN returns a random numeric PIN of PINLength digits
func GeneratePIN() (string, error) {
	pin := make([]byte, PINLength)
	for i := range pin {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		pin[i] = digits[num.Int64()]
	}
	return string(pin), nil
}

// ValidPIN reports whether pin is exactly PINLength digits
func ValidPIN(pin string) bool {
	if len(pin) != PINLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
