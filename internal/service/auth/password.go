package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWeakPassword wraps every password policy violation.
var ErrWeakPassword = errors.New("weak password")

// CredentialRequirements defines password policy requirements.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// DefaultRequirements returns the policy applied to operator-created accounts.
func DefaultRequirements() CredentialRequirements {
	return CredentialRequirements{
		MinPasswordLength: 10,
		WeakPasswords: []string{
			"admin", "password", "123456", "secret", "qwerty", "abc123",
			"letmein", "welcome", "monkey", "test", "default", "root",
		},
	}
}

var keyboardPatterns = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "azertyuiop"}

// Check reports why password violates the policy, or nil.
func (r CredentialRequirements) Check(password string) error {
	if len(password) < r.MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, r.MinPasswordLength)
	}
	if isRepeatedChar(password) {
		return fmt.Errorf("%w: must not repeat a single character", ErrWeakPassword)
	}
	if isNumericSequence(password) {
		return fmt.Errorf("%w: must not be a numeric sequence", ErrWeakPassword)
	}

	lower := strings.ToLower(password)
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) || strings.Contains(lower, reverse(pattern)) {
			return fmt.Errorf("%w: must not be a keyboard pattern", ErrWeakPassword)
		}
	}
	for _, weak := range r.WeakPasswords {
		// also catches padded variants such as "password2024"
		if lower == weak || (strings.HasPrefix(lower, weak) && len(password) < r.MinPasswordLength+5) {
			return fmt.Errorf("%w: must not be based on a common password", ErrWeakPassword)
		}
	}
	return nil
}

func isRepeatedChar(s string) bool {
	if s == "" {
		return false
	}
	return strings.Count(s, s[:1]) == len(s)
}

// isNumericSequence matches all-digit ascending or descending runs, wrapping 9->0.
func isNumericSequence(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	asc, desc := true, true
	for i := 1; i < len(s); i++ {
		diff := int(s[i]) - int(s[i-1])
		if diff != 1 && diff != -9 {
			asc = false
		}
		if diff != -1 && diff != 9 {
			desc = false
		}
	}
	return asc || desc
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
