package booking

import (
	"errors"
	"fmt"
)

// BookingError carries a machine-readable code alongside the message.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{
		Code:    "validationError",
		Message: msg,
	}
}

// IsValidationError reports whether err was raised by request validation.
func IsValidationError(err error) bool {
	var be *BookingError
	return errors.As(err, &be) && be.Code == "validationError"
}

// OutcomeError is the Cause of a Failed or PartiallyFailed outcome. It keeps
// the backend error reachable through errors.Is and errors.As.
type OutcomeError struct {
	Kind  OutcomeKind
	Cause error
}

func (e *OutcomeError) Error() string {
	return fmt.Sprintf("booking %s: %v", e.Kind, e.Cause)
}

func (e *OutcomeError) Unwrap() error {
	return e.Cause
}

var (
	// ErrSlotReleased means a slot awaiting repair became available again.
	ErrSlotReleased = errors.New("slot was released before the appointment was restored")
	// ErrSlotGone means a slot awaiting repair no longer exists.
	ErrSlotGone = errors.New("slot no longer exists")
)
