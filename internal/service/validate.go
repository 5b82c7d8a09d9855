package service

import (
	"strings"

	"github.com/sakif/postboard/internal/apperror"
)

// errNoFields is returned for a patch that carries no fields at all.
func errNoFields() error {
	return apperror.ValidationFailed("", "No fields to update")
}

// required trims s and rejects it when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	return s, nil
}

// patchText trims a present patch field. A present field may not be blank,
// since every text column is NOT NULL and non-empty. The caller's string is
// left untouched; the trimmed copy is returned.
func patchText(field string, s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, apperror.ValidationFailed(field, field+" cannot be empty")
	}
	return &v, nil
}
