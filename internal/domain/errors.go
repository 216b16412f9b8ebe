package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken means a login response carried none of the accepted
	// token fields (access_token, token, jwt).
	ErrMissingToken = errors.New("login response missing token")

	// ErrTokenNotFound is returned by token stores when the store holds
	// no credential under the requested key.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUnauthorized and ErrForbidden classify 401/403 responses. The
	// transport purges credentials and notifies the navigator before
	// re-raising them, so call-site error handling still fires.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrTaskTimeout means a polled task reached neither terminal state
	// before the wall-clock deadline.
	ErrTaskTimeout = errors.New("task timeout")
)

// APIError carries the HTTP status and server-supplied message of a
// non-2xx response.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// TaskError reports a task the server classified as failed.
type TaskError struct {
	TaskID  string
	Message string
}

func (e *TaskError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "task error"
	}
	if e.TaskID != "" {
		return fmt.Sprintf("task %s: %s", e.TaskID, msg)
	}
	return msg
}
