// Package policy holds the name, email and password rules every account mutation is gated on.
package policy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"userauth/internal/domain/service"
)

const (
	minPasswordLen  = 8
	maxPasswordLen  = 20
	passwordSymbols = "@#$%^&+="
)

var (
	namePattern  = regexp.MustCompile(`^[A-Z][a-z]*$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)
)

// IsValidName reports whether s is one ASCII uppercase letter followed by zero or more lowercase letters.
func IsValidName(s string) bool {
	return namePattern.MatchString(s)
}

// IsValidEmail reports whether s has the shape local@label.tld with a 2 to 7 letter TLD.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword reports whether s is 8 to 20 characters without whitespace and contains
// a digit, a lowercase letter, an uppercase letter and one of @#$%^&+=.
func IsValidPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minPasswordLen || n > maxPasswordLen {
		return false
	}

	var digit, lower, upper, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return digit && lower && upper && symbol
}

// Validator is the AccountValidator backed by the package rules.
type Validator struct{}

// NewValidator returns the default account policy.
func NewValidator() service.AccountValidator {
	return Validator{}
}

func (Validator) IsValidName(name string) bool { return IsValidName(name) }

func (Validator) IsValidEmail(email string) bool { return IsValidEmail(email) }

func (Validator) IsValidPassword(password string) bool { return IsValidPassword(password) }
