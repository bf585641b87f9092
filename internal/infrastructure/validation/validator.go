// Package validation checks request structs with go-playground/validator and
// reports failures as domain errors.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simudouane/backend/internal/domain/shared"
)

// FieldError describes one failed field, named by its json tag.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when a request fails validation. It matches
// shared.ErrInvalidInput under errors.Is.
type Error struct {
	Details []FieldError `json:"details"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return "Request validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is the invalid input sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*shared.DomainError)
	return ok && t.Code == shared.ErrInvalidInput.Code
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that names fields by their json tag and knows the
// hscode tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("hscode", validateHSCode)

	return &Validator{validate: v}
}

// Struct validates s. It returns nil or an *Error.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &Error{Details: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Details = append(out.Details, FieldError{
			Field:   fe.Field(),
			Message: getValidationMessage(fe),
		})
	}
	return out
}

var defaultValidator = New()

// Struct validates s with the package default Validator.
func Struct(s interface{}) error {
	return defaultValidator.Struct(s)
}

// validateHSCode accepts digits and dots, the layout of CEMAC tariff lines.
func validateHSCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	for _, r := range code {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "hscode":
		return "Must contain only digits and dots"
	case "alphanum":
		return "Must be alphanumeric"
	default:
		return "Invalid value"
	}
}
