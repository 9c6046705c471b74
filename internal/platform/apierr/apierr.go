package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the domain error carried from stores and services up to the
// handlers, which map it to an HTTP status and a {"message": ...} body.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func InvalidArgument(msg string) error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func Internal(msg string) error {
	return &Error{Code: CodeInternal, Message: msg}
}

func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message. Unexpected errors collapse to
// a generic message so internals never leak into responses.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Body is the JSON error envelope shared by server and gateway.
type Body struct {
	Message string `json:"message"`
}

func BodyFrom(err error) Body {
	return Body{Message: Message(err)}
}
