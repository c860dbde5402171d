package service

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// hashCost mirrors the 10-round policy the platform has always used.
const hashCost = 10

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash derives a salted one-way hash of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. Comparison is
// constant-time inside bcrypt; a mismatch returns false, never an error.
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// MeetsStrengthPolicy reports whether plaintext satisfies the registration
// policy: length >= 8, at least one uppercase letter and at least one digit.
func (h *BcryptHasher) MeetsStrengthPolicy(plaintext string) bool {
	if len(plaintext) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}
