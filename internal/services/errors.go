package services

import (
	"errors"
	"fmt"

	"ledger-service/internal/repository"
)

var ErrImageStorageUnavailable = errors.New("bill image storage is not configured")

// NotFoundError reports that an entity id did not resolve.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ValidationError reports a business rule or required-field violation. Its
// message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func validationFrom(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: err.Error()}
}

// mapNotFound turns the store's missing-row signal into a NotFoundError for
// entity; other errors pass through unchanged.
func mapNotFound(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
