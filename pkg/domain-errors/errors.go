// Package domainerrors provides coded errors for the registry's public
// operations. Stores return sentinel errors (pkg/platform/sentinel); services
// translate those into coded errors here so transports can map codes to
// status without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failed operation.
type Code string

const (
	// CodeInvalidInput covers malformed identifiers and payloads at trust boundaries.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidRecipient rejects a mint to the null identity.
	CodeInvalidRecipient Code = "invalid_recipient"
	// CodeReceiverRejected means the safe-issuance receiver check refused the mint.
	CodeReceiverRejected Code = "receiver_rejected"
	// CodeNotFound means the referenced token has no live record.
	CodeNotFound Code = "not_found"
	// CodeNotHolder means the caller is not the token's current holder.
	CodeNotHolder Code = "not_holder"
	// CodeNotAuthorized means the caller lacks the administrator capability.
	CodeNotAuthorized Code = "not_authorized"
	// CodeConflict covers concurrent-modification and uniqueness violations.
	CodeConflict Code = "conflict"
	// CodeInternal covers infrastructure failures surfaced to callers.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It optionally wraps an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// coded domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCoded reports whether err is already a coded domain error. Services use
// this to pass through codes raised inside store callbacks untouched.
func IsCoded(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
