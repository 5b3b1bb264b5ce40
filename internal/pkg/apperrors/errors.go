package apperrors

import (
	"errors"
	"fmt"
)

// Error classes. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidationFailed is the invalid-argument class: bad input, broken
	// business rule or a missing teaching assignment.
	ErrValidationFailed = errors.New("validation failed")
)

// Domain errors wrap a class so callers can match either.
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrResourceNotFound)
	ErrUsernameExists     = fmt.Errorf("username already exists: %w", ErrResourceAlreadyExists)
	ErrStudentNotFound    = fmt.Errorf("student %w", ErrResourceNotFound)
	ErrTeacherNotFound    = fmt.Errorf("teacher %w", ErrResourceNotFound)
	ErrGroupNotFound      = fmt.Errorf("group %w", ErrResourceNotFound)
	ErrGroupCodeExists    = fmt.Errorf("group code already exists: %w", ErrResourceAlreadyExists)
	ErrSubjectNotFound    = fmt.Errorf("subject %w", ErrResourceNotFound)
	ErrSubjectCodeExists  = fmt.Errorf("subject code already exists: %w", ErrResourceAlreadyExists)
	ErrGradeNotFound      = fmt.Errorf("grade %w", ErrResourceNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrResourceNotFound)
	ErrAssignmentExists   = fmt.Errorf("assignment already exists: %w", ErrResourceAlreadyExists)
	ErrNoRole             = fmt.Errorf("user has no role: %w", ErrPermissionDenied)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates an invalid-argument error with a user facing message
func NewValidationError(format string, args ...interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// PublicMessage returns the message meant for API clients. Wrapped
// validation and domain errors expose their text, anything else is hidden.
func PublicMessage(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	if Is(err, ErrValidationFailed, ErrResourceNotFound, ErrResourceAlreadyExists, ErrConflict, ErrPermissionDenied) {
		return err.Error()
	}
	return fallback
}
