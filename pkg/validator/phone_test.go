package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"0771234567", "0771234567", "Ten digits"},
		{"+94771234567", "+94771234567", "With country code"},
		{"077 123 4567", "077 123 4567", "With spaces"},
		{"077-123-4567", "077-123-4567", "With dashes"},
		{"(077) 123 4567", "(077) 123 4567", "With parentheses"},
		{"  9876543210 ", "9876543210", "Surrounding whitespace"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			phone, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, phone)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty"},
		{"   ", ErrEmptyPhone, "Whitespace only"},
		{"12345", ErrInvalidPhone, "Too short"},
		{"077.123.4567", ErrInvalidPhone, "Dots"},
		{"077123456a", ErrInvalidPhone, "Letters"},
		{"++94771234567", ErrInvalidPhone, "Double plus"},
		{"077123+4567", ErrInvalidPhone, "Plus in middle"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestSanitize(t *testing.T) {
	validator := NewPhoneValidator()

	assert.Equal(t, "0771234567", validator.Sanitize("(077) 123-4567"))
	assert.Equal(t, "+94771234567", validator.Sanitize("+94 77 123 4567"))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2026-10-18"))
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate("2026-02-30"))
	assert.False(t, IsValidDate("18-10-2026"))
	assert.False(t, IsValidDate(""))
}

type bindingFixture struct {
	Phone      string  `json:"phone" validate:"required,phone"`
	TravelDate string  `json:"travelDate" validate:"required,busdate"`
	AltPhone   *string `json:"altPhone" validate:"omitempty,phone"`
}

func TestRegister_CustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(bindingFixture{Phone: "+91 98765 43210", TravelDate: "2026-12-01"}))

	err := v.Struct(bindingFixture{Phone: "123", TravelDate: "2026-12-01"})
	require.Error(t, err)
	assert.Equal(t, "Please provide a valid phone number", FieldErrorMessage(err))

	err = v.Struct(bindingFixture{Phone: "9876543210", TravelDate: "tomorrow"})
	require.Error(t, err)
	assert.Equal(t, "travelDate must be a valid date (YYYY-MM-DD)", FieldErrorMessage(err))

	bad := "x"
	err = v.Struct(bindingFixture{Phone: "9876543210", TravelDate: "2026-12-01", AltPhone: &bad})
	assert.Error(t, err)
}

func TestFieldErrorMessage_Required(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	err := v.Struct(bindingFixture{TravelDate: "2026-12-01"})
	require.Error(t, err)
	assert.Equal(t, "phone is required", FieldErrorMessage(err))
}

func TestFieldErrorMessage_NonValidationError(t *testing.T) {
	assert.Equal(t, "Invalid input data", FieldErrorMessage(assert.AnError))
}
