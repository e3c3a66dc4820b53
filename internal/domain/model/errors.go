package model

import "errors"

var (
	// Data errors: a lookup by id found no row.
	ErrDeviceNotFound = errors.New("device not found")

	// Business rule violations.
	ErrInvalidDeviceDetails      = errors.New("invalid device details, must have a name and a brand")
	ErrEmptyUpdate               = errors.New("invalid device details, must have at least one non-empty field")
	ErrCannotUpdateInUseDevice   = errors.New("device in use, cannot be updated")
	ErrCannotDeleteInUseDevice   = errors.New("device in use, cannot be deleted")
	ErrDeviceNotFoundForDeletion = errors.New("device not found for deletion")

	// Invalid request shape.
	ErrInvalidDeviceID      = errors.New("invalid device ID")
	ErrInvalidState         = errors.New("invalid device state")
	ErrMalformedRequestBody = errors.New("malformed request body")

	// System faults.
	ErrDatabaseQuery = errors.New("database query error")
)

// IsBusinessRuleViolation reports whether err is a semantically invalid
// operation given current data, as opposed to malformed input.
func IsBusinessRuleViolation(err error) bool {
	return errors.Is(err, ErrInvalidDeviceDetails) ||
		errors.Is(err, ErrEmptyUpdate) ||
		errors.Is(err, ErrCannotUpdateInUseDevice) ||
		errors.Is(err, ErrCannotDeleteInUseDevice) ||
		errors.Is(err, ErrDeviceNotFoundForDeletion)
}

// IsNotFound reports whether err is a missing-row lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDeviceNotFound)
}

// IsInvalidRequest reports whether err stems from an unparsable request
// token rather than from the state of the data.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidDeviceID) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrMalformedRequestBody)
}
