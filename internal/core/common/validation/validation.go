package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errors "github.com/frahmantamala/crm-management/internal"
)

// Messages maps "field.tag" (e.g. "name.required") to the message reported
// when that rule fails on that field.
type Messages map[string]string

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
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
	})
	return v
}

type ValidationBuilder struct {
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		errors: make([]errors.ValidationError, 0),
	}
}

// Struct runs the `validate` tags of s and records one message per failing field.
func (v *ValidationBuilder) Struct(s interface{}, messages Messages) *ValidationBuilder {
	err := validate.Struct(s)
	if err == nil {
		return v
	}

	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return v.Add("", err.Error(), errors.ErrCodeValidationFailed)
	}

	for _, fe := range ve {
		message, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			message = fieldError(fe)
		}
		v.Add(fe.Field(), message, codeFor(fe.Tag()))
	}
	return v
}

func (v *ValidationBuilder) Add(field, message string, code errors.ErrorCode) *ValidationBuilder {
	v.errors = append(v.errors, errors.ValidationError{
		Field:   field,
		Message: message,
		Code:    string(code),
	})
	return v
}

// Unique records message against field when taken is true and the field has
// not already failed another rule.
func (v *ValidationBuilder) Unique(field string, taken bool, message string) *ValidationBuilder {
	if taken && !v.Has(field) {
		v.Add(field, message, errors.ErrCodeTaken)
	}
	return v
}

func (v *ValidationBuilder) Has(field string) bool {
	for _, e := range v.errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	if len(v.errors) == 0 {
		return nil
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: v.errors})
}

func codeFor(tag string) errors.ErrorCode {
	if tag == "required" {
		return errors.ErrCodeRequired
	}
	return errors.ErrCodeValidationFailed
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s confirmation does not match", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
