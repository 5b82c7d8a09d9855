package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("User"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "ConstraintViolation wraps ErrConstraint",
			err:       ConstraintViolation("email", "email already in use"),
			target:    ErrConstraint,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Post"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "ConstraintViolation does NOT match ErrValidation",
			err:       ConstraintViolation("email", "email already in use"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("updating user: %w", NotFound("User")),
			target:    ErrNotFound,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message names the resource",
			err:         NotFound("User"),
			wantMessage: "User not found",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("", "No fields to update"),
			wantMessage: "No fields to update",
		},
		{
			name:        "ConstraintViolation uses custom message",
			err:         ConstraintViolation("email", "email already in use"),
			wantMessage: "email already in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("Post")

	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestAs_ExtractsField(t *testing.T) {
	err := fmt.Errorf("creating post: %w", ValidationFailed("user_id", "Invalid user_id"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() did not find *AppError in chain")
	}
	if appErr.Field != "user_id" {
		t.Errorf("Field = %q, want %q", appErr.Field, "user_id")
	}
}
