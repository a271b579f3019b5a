package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation                 = errors.New("validation failed")
	ErrInvalidTransition          = errors.New("invalid status transition")
	ErrConcurrentModification     = errors.New("concurrent modification")
	ErrNotFound                   = errors.New("not found")
	ErrQuantityExceeded           = errors.New("quantity exceeded")
	ErrSettlementAlreadyFinalized = errors.New("settlement already finalized")
	ErrForbidden                  = errors.New("action is not allowed for actor")

	// ErrOutOfRange и ErrMissingReason тоже являются ErrValidation
	ErrOutOfRange    = fmt.Errorf("%w: value out of range", ErrValidation)
	ErrMissingReason = fmt.Errorf("%w: reason is required", ErrValidation)
)

// Validationf builds an error matching ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
