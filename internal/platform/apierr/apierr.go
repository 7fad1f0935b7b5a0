// Package apierr defines the error type the service layer hands to the HTTP
// layer: an HTTP status, a stable machine-readable code and the underlying
// cause. Services declare sentinel values with New and return them directly,
// so handlers can match with errors.Is and map with errors.As.
package apierr

import "fmt"

type Error struct {
	Status int
	Code   string
	Err    error
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }
