package tracking

import "errors"

var (
	// ErrStorageDir indicates the directory holding the database could not be created.
	ErrStorageDir = errors.New("cannot create record store directory")
	// ErrInvalidTransition indicates a requested status is not a single forward step.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStaleTransition indicates the record is missing or no longer at the expected status.
	ErrStaleTransition = errors.New("record not at expected status")
)
