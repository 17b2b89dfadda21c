// Package apperrors defines the error kinds surfaced by the service layer.
// Services wrap these sentinels with fmt.Errorf and %w so handlers can map
// them to HTTP statuses with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks missing or invalid input fields.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks a caller lacking the required role or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks an unknown resource identifier.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a file or database write failure.
	ErrStorage = errors.New("storage failure")
)
