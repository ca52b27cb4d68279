package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicateCode is returned when a freshly generated booking code
	// collides with an existing one. Callers retry with a new code.
	ErrDuplicateCode = errors.New("booking code already exists")

	// ErrSlotLocked is returned when another reservation currently holds
	// the admission lock for the same (activity, occurrence date).
	ErrSlotLocked = errors.New("slot lock held by another reservation")
)
