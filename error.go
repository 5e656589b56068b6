package alarmclock

import (
	"errors"
	"fmt"
)

type errorCode string

// Application error codes. Errors with any other cause are internal.
const (
	ErrInternal   errorCode = "internal"
	ErrInvalid    errorCode = "invalid"
	ErrPermission errorCode = "permission"
)

// Error is an error meant for the user. Description is shown as is, Err is
// the underlying failure, if any.
type Error struct {
	Code        errorCode
	Description string
	Err         error
}

func (e *Error) Error() string {
	msg := "alarmclock: " + string(e.Code) + ": " + e.Description
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(code errorCode, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and a user-facing description to err.
func Wrap(code errorCode, err error, description string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Description: description, Err: err}
}

// ErrorCode returns the code of the first application error in err's chain,
// ErrInternal if there is none, or "" for a nil error.
func ErrorCode(err error) errorCode {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e) && e.Code != "":
		return e.Code
	default:
		return ErrInternal
	}
}

// ErrorDescription returns the description the user should see for err.
func ErrorDescription(err error) string {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e) && e.Description != "":
		return e.Description
	default:
		return "internal error"
	}
}
