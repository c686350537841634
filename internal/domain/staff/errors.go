package staff

import "errors"

var (
	// ErrNotFound is returned when no staff member exists with the given id.
	ErrNotFound = errors.New("staff member not found")
	// ErrValidation is returned when required fields are missing at creation.
	ErrValidation = errors.New("validation failed")
)
