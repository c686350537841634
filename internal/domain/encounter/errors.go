package encounter

import "errors"

var (
	// ErrNotFound is returned when no encounter exists with the given id.
	ErrNotFound = errors.New("encounter not found")
	// ErrValidation is returned when required fields are missing at creation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the current status, including any mutation of an
	// attended encounter.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyClaimed is returned when a second caregiver tries to claim
	// an encounter. First claim wins; callers must not retry.
	ErrAlreadyClaimed = errors.New("encounter already claimed")
	// ErrConflict is returned when a concurrent writer got there first and
	// the compare-and-swap update matched no row.
	ErrConflict = errors.New("concurrent modification")
)
