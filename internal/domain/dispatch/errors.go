package dispatch

import "errors"

var (
	ErrNotFound       = errors.New("service request not found")
	ErrValidation     = errors.New("validation failed")
	ErrNotEligible    = errors.New("staff member not eligible for dispatch")
	ErrNotAssigned    = errors.New("request not assigned to staff member")
	ErrAlreadyClaimed = errors.New("request already assigned")
	ErrTerminalState  = errors.New("request already finalized")
	ErrConflict       = errors.New("request was modified concurrently")
)
