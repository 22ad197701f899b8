package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or delete targets a point that is
// not in the local collection.
var ErrNotFound = errors.New("point not found")

// ErrValidation is returned when a point breaks a data invariant
// (e.g. end date before start date, unknown destination).
var ErrValidation = errors.New("validation error")

// ErrDuplicateID is returned when an added point would share its id with an
// existing one.
var ErrDuplicateID = errors.New("duplicate point id")

// ErrInFlight is returned when a point already has a request awaiting the
// backend.
var ErrInFlight = errors.New("previous request still in progress")

// NetworkError wraps a failed call to the remote backend.
type NetworkError struct {
	Op     string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
