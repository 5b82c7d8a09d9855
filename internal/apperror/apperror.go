package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrConstraint = errors.New("constraint violation")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing row for an id-addressed read, update or delete.
// resource is the display name ("User", "Post"); the message is what clients see.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ConstraintViolation is a uniqueness or not-null failure raised by the store.
// HTTP handlers map this to 400 Bad Request.
func ConstraintViolation(field, message string) *AppError {
	return &AppError{
		Err:     ErrConstraint,
		Message: message,
		Field:   field,
	}
}
