package v1

import "errors"

// Sentinel errors shared by the client, services and CLI. Callers match them
// with errors.Is; the concrete errors wrap these with detail.
var (
	// ErrUnauthorized is returned after the API answered 401 and the local
	// session was torn down.
	ErrUnauthorized = errors.New("session expired or invalid")

	// ErrNotAuthenticated is returned without contacting the API when an
	// authenticated call is attempted with no session.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrValidation wraps client-side form validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when an appointment status change is
	// not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidationError is a single form validation failure. Forms report the
// first failure only.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error { return ErrValidation }
