package domain

import "errors"

// Error is a domain error carrying a stable code that adapters translate
// into user-facing messages.
type Error struct {
	code string
	msg  string
}

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier of the error.
func (e *Error) Code() string { return e.code }

// Domain errors.
var (
	ErrEventNotFound        = newError("event_not_found", "event not found")
	ErrGuestNotFound        = newError("guest_not_found", "guest not found")
	ErrInvalidEvent         = newError("invalid_event", "event name, date and location are required")
	ErrInvalidGuest         = newError("invalid_guest", "guest name is required")
	ErrInvalidDecision      = newError("invalid_decision", "rsvp decision must be confirmed or declined")
	ErrInvalidPasses        = newError("invalid_passes", "a guest needs at least one pass")
	ErrPassesBelowConfirmed = newError("passes_below_confirmed", "passes cannot go below the confirmed passes")
	ErrPassUnavailable      = newError("pass_unavailable", "the entry pass is issued once the guest confirms")
	ErrWriteFailed          = newError("write_failed", "the guest store rejected the update")
	ErrStoreUnavailable     = newError("store_unavailable", "the guest store is unavailable")
)

// Code extracts the domain error code from err, or "" when err is not a
// domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}

// IsRetryable reports whether err is a store failure the caller may retry
// without changing its input.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrWriteFailed) || errors.Is(err, ErrStoreUnavailable)
}
