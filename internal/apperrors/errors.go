// Package apperrors holds the error taxonomy shared by every module.
// Package-level sentinels wrap one of these so callers can match with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence means storage was unavailable or rejected the write.
	ErrPersistence = errors.New("persistence error")

	// ErrHierarchyViolation means the bot's highest role is not above the target role.
	ErrHierarchyViolation = errors.New("role hierarchy violation")

	// ErrNotFound means a referenced record, role, channel or message no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrTimeout means an interactive step got no reply in time.
	ErrTimeout = errors.New("timed out waiting for reply")

	// ErrDuplicate means the record already exists and was left untouched.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidInput means user supplied input could not be parsed.
	ErrInvalidInput = errors.New("invalid input")
)

// Persistence wraps a storage error so it matches ErrPersistence.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Invalid builds an ErrInvalidInput with a user readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
