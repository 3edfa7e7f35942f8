package service

import (
	"errors"
	"slices"
	"strings"

	"github.com/emzola/libraria/internal/validator"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrDuplicateRecord      = errors.New("duplicate record")
	ErrUnavailable          = errors.New("no copies available")
	ErrAlreadyReturned      = errors.New("lending already returned")
	ErrLimitReached         = errors.New("open lending limit reached")
	ErrOpenLendings         = errors.New("record has open lendings")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotPermitted         = errors.New("not permitted")
	ErrNotConfigured        = errors.New("not configured")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrBadRequest           = errors.New("bad request")
)

// ValidationError carries the field errors of a rejected input. It matches
// ErrFailedValidation with errors.Is.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Errors[k]
	}
	return "failed validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrFailedValidation
}

// failedValidation returns the errors collected by v as a *ValidationError.
func failedValidation(v *validator.Validator) error {
	return &ValidationError{Errors: v.Errors}
}
