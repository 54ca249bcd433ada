package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account inactive")
	ErrAccountDeleted      = errors.New("account deleted")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateCredential = errors.New("duplicate credential")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// Failure attaches a client-facing message to one of the sentinel errors above.
// errors.Is still matches the sentinel through Unwrap.
type Failure struct {
	Err     error
	Message string
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Fail wraps sentinel with the message the client should see.
func Fail(sentinel error, msg string) error {
	return &Failure{Err: sentinel, Message: msg}
}

func Failf(sentinel error, format string, args ...any) error {
	return &Failure{Err: sentinel, Message: fmt.Sprintf(format, args...)}
}

// MessageOf returns the client-facing message carried by err, if any.
func MessageOf(err error) (string, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message, true
	}
	return "", false
}

// DuplicateFailure builds the 409 message for an email and/or mobile collision.
func DuplicateFailure(email, mobile bool) error {
	switch {
	case email && mobile:
		return Fail(ErrDuplicateCredential, "Email and Mobile number already exist. Please use different credentials.")
	case email:
		return Fail(ErrDuplicateCredential, "Email already exists. Please use a different email.")
	default:
		return Fail(ErrDuplicateCredential, "Mobile number already exists. Please use a different mobile number.")
	}
}

// NotFound builds the 404 for a missing account of kind k.
func NotFound(k Kind) error {
	return Failf(ErrNotFound, "%s not found", k.Label())
}
