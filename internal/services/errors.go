package services

import (
	"errors"
	"fmt"

	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")

	// Composite teacher protocol failure kinds. The caller can tell
	// which step of the two-row write failed.
	ErrPersonCreateFailed  = errors.New("person creation failed")
	ErrTeacherCreateFailed = errors.New("teacher creation failed")
	ErrPersonUpdateFailed  = errors.New("person update failed")
	ErrTeacherUpdateFailed = errors.New("teacher update failed")

	// ErrQueryFailed wraps any read operation whose underlying call failed
	ErrQueryFailed = errors.New("query failed")

	ErrAuthFailed = errors.New("authentication failed")
)

// ===== ERROR HELPERS =====

// wrapNotFound maps a missing-row repository error onto ErrNotFound,
// keeping the original as context
func wrapNotFound(err error, entity string) error {
	if repositories.IsNotFoundError(err) {
		return fmt.Errorf("%s %w: %v", entity, ErrNotFound, err)
	}
	return err
}

// wrapQuery tags a failed read with ErrQueryFailed unless it is a
// missing-row error, which stays ErrNotFound
func wrapQuery(err error, operation string) error {
	if repositories.IsNotFoundError(err) {
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", operation, ErrQueryFailed, err)
}

// validationError wraps field errors under ErrValidationFailed so
// handlers can map them to a 400 with details
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, fieldErrors)
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

// IsNotFound reports whether err is the service-level not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
