package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 400
	ErrUnavailable        = errors.New("unavailable")         // 400
	ErrBusinessRule       = errors.New("business rule")       // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400
	ErrInvalidState       = errors.New("invalid state")       // 400
	ErrExpired            = errors.New("expired")             // 400
	ErrTooManyRequests    = errors.New("too many requests")   // 429
)

// Error pairs a sentinel kind with the message shown to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing text carried by err, or "" for unexpected errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}
