package domain

import (
	"strings"
	"unicode"
)

// PasswordSpecials are the symbols that satisfy the special-character rule.
const PasswordSpecials = "@$!%*?&"

const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordPolicyViolation returns the first complexity rule password breaks,
// or "" when it satisfies all of them.
func PasswordPolicyViolation(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < MinPasswordLength {
		return "Password must be at least 8 characters long"
	}
	if len(password) > MaxPasswordBytes {
		return "Password must be at most 72 bytes long"
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return "Password must contain at least one uppercase letter"
	case !lower:
		return "Password must contain at least one lowercase letter"
	case !digit:
		return "Password must contain at least one number"
	case !special:
		return "Password must contain at least one special character"
	}
	return ""
}

// ValidatePassword wraps PasswordPolicyViolation as an ErrValidation failure.
func ValidatePassword(password string) error {
	if msg := PasswordPolicyViolation(password); msg != "" {
		return Fail(ErrValidation, msg)
	}
	return nil
}
