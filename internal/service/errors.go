package service

import (
	"errors"
	"fmt"

	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// Error taxonomy shared by every service. Handlers map these to HTTP statuses.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrDependencyExists   = fmt.Errorf("%w: record still has dependents", ErrConflict)
	ErrJournalExists      = fmt.Errorf("%w: journal already submitted for this session", ErrConflict)
	ErrScheduleOverlap    = fmt.Errorf("%w: schedule overlaps an existing slot", ErrConflict)
)

// FieldError is an InvalidInput failure attributed to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func invalidField(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// fromRepo converts repository sentinels into the service taxonomy.
func fromRepo(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, repository.ErrReferenced):
		return fmt.Errorf("%s: %w", op, ErrDependencyExists)
	case errors.Is(err, repository.ErrInvalidReference):
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
