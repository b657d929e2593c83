package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeBusinessRule ErrorType = "BUSINESS_RULE"
	ErrorTypeConstraint   ErrorType = "CONSTRAINT_VIOLATION"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequired         ErrorCode = "REQUIRED"
	ErrCodeTaken            ErrorCode = "TAKEN"
	ErrCodeInvalidFile      ErrorCode = "INVALID_FILE"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeCustomerNotFound   ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeRoleNotFound       ErrorCode = "ROLE_NOT_FOUND"
	ErrCodePermissionNotFound ErrorCode = "PERMISSION_NOT_FOUND"

	ErrCodeCredentialsNotFound ErrorCode = "CREDENTIALS_NOT_FOUND"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUnauthenticated     ErrorCode = "UNAUTHENTICATED"
	ErrCodeMissingRole         ErrorCode = "MISSING_ROLE"

	ErrCodeAlreadyAdmin    ErrorCode = "ALREADY_ADMIN"
	ErrCodeOperationFailed ErrorCode = "OPERATION_FAILED"

	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
)

type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Details    interface{}
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Messages returns the flattened per-field messages of a validation error,
// or a single-element slice with the error message otherwise.
func (e *AppError) Messages() []string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return messages
	}
	return []string{e.Message}
}

func (e *AppError) GetDetailedMessage() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewBusinessRuleError reports a request that was understood but could not be
// carried out (417 Expectation Failed).
func NewBusinessRuleError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeBusinessRule,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusExpectationFailed,
	}
}

func NewConstraintError(detail string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConstraint,
		Code:       ErrCodeConstraintViolation,
		Message:    detail,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUnauthenticated     = NewUnauthorizedError("Unauthenticated.", ErrCodeUnauthenticated)
	ErrMissingRole         = NewForbiddenError("User does not have the right roles.", ErrCodeMissingRole)
	ErrCredentialsNotFound = NewNotFoundError("Login credentials not found", ErrCodeCredentialsNotFound)
	ErrInvalidCredentials  = NewUnauthorizedError("Incorrect login credentials", ErrCodeInvalidCredentials)
	ErrAlreadyAdmin        = NewBusinessRuleError("This user has an admin status already", ErrCodeAlreadyAdmin)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ConstraintViolation reports whether err is an integrity constraint failure
// raised by the database and returns the driver's error text.
func ConstraintViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 23: integrity constraint violation
		if strings.HasPrefix(pgErr.Code, "23") {
			if pgErr.Detail != "" {
				return pgErr.Message + ": " + pgErr.Detail, true
			}
			return pgErr.Message, true
		}
		return "", false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return err.Error(), true
	}

	// sqlite reports e.g. "UNIQUE constraint failed: users.email"
	if strings.Contains(err.Error(), "constraint failed") {
		return err.Error(), true
	}

	return "", false
}
