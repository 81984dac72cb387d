package tracking

import "errors"

// Tracking domain errors
var (
	// Check-in/check-out guard errors
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNotCheckedIn      = errors.New("no check-in found for today")

	// ErrStatusNotFound covers a status lookup for an employee that has
	// no status row yet, meaning no ingest has ever seen them.
	ErrStatusNotFound = errors.New("employee status not found")
)
