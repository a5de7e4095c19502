package api

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrTransport = errors.New("record store request failed")
)

// Error is the failure returned by every resource client. It carries a short
// user-facing message; the underlying cause is logged, not wrapped.
type Error struct {
	Op         string
	Message    string
	StatusCode int
	kind       error
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches ErrNotFound or ErrTransport.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status %d", e.code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}
