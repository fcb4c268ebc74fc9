// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP surface. Every rule violation is raised at the point of detection
// as an *Error carrying an HTTP status code and a caller-visible message;
// nothing is retried or recovered locally.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound covers missing entities and, deliberately, visibility failures on
// bookings: a caller who is neither booker nor owner gets the same answer as
// for a booking that does not exist.
func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// Conflict is reserved for uniqueness violations (duplicate email).
func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

// From unwraps err into an *Error. For unknown errors it reports a generic
// internal error so the raw message never leaks to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Code: http.StatusInternalServerError, Message: "internal error"}
}

// IsCode reports whether err is an *Error with the given status code.
func IsCode(err error, code int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
