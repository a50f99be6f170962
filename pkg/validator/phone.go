package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhone indicates phone number has too few digits or invalid characters
	ErrInvalidPhone = errors.New("Please provide a valid phone number")
)

// phoneRegex accepts an optional leading +, then at least 10 digits,
// spaces, dashes or parentheses
var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate checks a phone number and returns it trimmed.
// Accepts formats like +94 77 123 4567, (077) 123-4567 or 0771234567.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", ErrEmptyPhone
	}

	if !phoneRegex.MatchString(trimmed) {
		return "", ErrInvalidPhone
	}

	return trimmed, nil
}

// Sanitize removes separators, keeping digits and a leading +
func (v *PhoneValidator) Sanitize(phone string) string {
	var sb strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
