package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound means the referenced product has no inventory row.
	ErrProductNotFound = errors.New("product not found in inventory")

	// ErrInsufficientStock means the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("not enough stock available")

	// ErrDuplicateRequest means the request ID was already claimed.
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrRetryable marks transient storage failures (deadlock, lock wait
	// timeout, broken connection). Callers may retry the whole operation.
	ErrRetryable = errors.New("retryable storage error")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidResetToken    = errors.New("invalid or expired token")
	ErrUsernameTaken        = errors.New("username already taken")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a uniqueness clash on product creation or update.
// Existing carries the row that already owns the contested value so the
// conflict-resolution UI can show it.
type ConflictError struct {
	Field    string
	Existing *InventoryItem
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a product with this %s already exists", e.Field)
}
