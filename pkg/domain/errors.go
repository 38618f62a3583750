package domain

import "errors"

// Error kinds. Every error returned by the registry and the ledger wraps
// exactly one of these so the API layer can translate it once.
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when an operation would break a uniqueness invariant
	ErrConflict = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrInsufficientFunds is returned when a debit would leave a negative balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStoreUnavailable is returned when the store timed out or failed transiently.
	// Callers may retry the request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error is a domain error carrying a public message and its kind.
type Error struct {
	kind error
	msg  string
}

// NewError creates a domain error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind of err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrInsufficientFunds,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Unavailable wraps a transient store failure so that it matches
// ErrStoreUnavailable while keeping the cause for logging.
func Unavailable(cause error) error {
	if cause == nil || errors.Is(cause, ErrStoreUnavailable) {
		return cause
	}
	return &unavailableError{cause: cause}
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrStoreUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.cause}
}
