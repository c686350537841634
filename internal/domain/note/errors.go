package note

import "errors"

var (
	// ErrNotFound is returned when no note exists with the given id.
	ErrNotFound = errors.New("note not found")
	// ErrValidation is returned when required fields are missing at creation.
	ErrValidation = errors.New("validation failed")
	// ErrImmutableNote is returned when a write targets a signed note.
	ErrImmutableNote = errors.New("note is signed and immutable")
	// ErrAlreadySigned is returned when sign is called on a signed note.
	ErrAlreadySigned = errors.New("note already signed")
	// ErrIncompleteNote is returned when signing a note whose mandatory
	// fields for its document type are missing.
	ErrIncompleteNote = errors.New("note is missing mandatory fields")
	// ErrConflict is returned when a concurrent writer got there first.
	ErrConflict = errors.New("concurrent modification")
)
