package game

import (
	"fmt"
	"net/http"
)

// Error is a domain failure carrying the HTTP status the boundary handler
// maps it to. Messages are user-facing GM console text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func BadRequest(format string, a ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, a...)}
}

func Forbidden(format string, a ...any) *Error {
	return &Error{Status: http.StatusForbidden, Message: fmt.Sprintf(format, a...)}
}

func NotFound(format string, a ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, a...)}
}

func Conflict(format string, a ...any) *Error {
	return &Error{Status: http.StatusConflict, Message: fmt.Sprintf(format, a...)}
}
