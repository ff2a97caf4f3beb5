package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingBotToken = New("bot token is required")
	ErrInvalidConfig   = New("invalid configuration")

	// Authorization errors
	ErrAccessDenied     = New("access denied")
	ErrNotParticipant   = New("user is not a member of the required group")
	ErrMembershipLookup = New("membership query failed")
	ErrPaymentRejected  = New("payment verification failed")

	// Pipeline errors
	ErrInvalidRequest  = New("request does not contain a valid link")
	ErrDownloadFailed  = New("download failed")
	ErrWorkspaceFailed = New("temporary workspace could not be created")

	// Store errors
	ErrStoreUnavailable = New("store unavailable")
	ErrQueryFailed      = New("query failed")
	ErrUpdateFailed     = New("update failed")

	// Transport errors
	ErrSendFailed = New("message send failed")
	ErrEditFailed = New("message edit failed")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}
