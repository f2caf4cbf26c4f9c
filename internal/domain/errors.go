package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the root of every validation failure raised before
// planning work begins. Callers map it to a client error.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidItem     = fmt.Errorf("%w: item", ErrInvalidInput)
	ErrInvalidVehicle  = fmt.Errorf("%w: vehicle profile", ErrInvalidInput)
	ErrEmptyCatalog    = fmt.Errorf("%w: vehicle catalog is empty", ErrInvalidInput)
	ErrInvalidLocation = fmt.Errorf("%w: location", ErrInvalidInput)
	ErrTooManyItems    = fmt.Errorf("%w: too many item units", ErrInvalidInput)
	ErrTooManyStops    = fmt.Errorf("%w: too many stops", ErrInvalidInput)
	ErrUnplaceableItem = fmt.Errorf("%w: item cannot fit any vehicle", ErrInvalidInput)
)

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(sentinel error, field, reason string) error {
	return &ValidationError{Field: field, Reason: reason, Err: sentinel}
}
