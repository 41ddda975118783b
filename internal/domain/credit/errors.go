package credit

import "errors"

var (
	// ErrInsufficientCredits is returned when a deduction would drive the balance below zero
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAction is returned for an unknown action or a malformed sign/action combination
	ErrInvalidAction = errors.New("invalid action or credit amount")

	// ErrOfficerNotFound is returned when the officer doesn't exist
	ErrOfficerNotFound = errors.New("officer not found")

	// ErrConflict is returned when concurrent-update retries are exhausted
	ErrConflict = errors.New("concurrent update conflict")

	// ErrTimeout is returned when the operation exceeded its deadline
	ErrTimeout = errors.New("operation timed out")

	ErrInternal = errors.New("internal error")
)
