package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of travel dates
const DateLayout = "2006-01-02"

// RegisterBindings adds the custom "phone" and "busdate" tags to gin's validator engine
func RegisterBindings() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(engine)
}

// Register adds the custom tags to a validator instance
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	phone := NewPhoneValidator()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phone.IsValid(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register phone validation: %w", err)
	}

	if err := v.RegisterValidation("busdate", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register busdate validation: %w", err)
	}

	return nil
}

// fieldName reports fields by their json or form name
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// IsValidDate reports whether value is a calendar date in YYYY-MM-DD form
func IsValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// FieldErrorMessage renders the first validation error of err as a
// client-facing message
func FieldErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input data"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email"
	case "phone":
		return ErrInvalidPhone.Error()
	case "busdate":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
