package errors

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Common error values for the session core. Callers match them with Is.
var (
	// Session errors
	ErrAuthenticationFailed = errors.New("authentication failed, check your credentials")
	ErrRegistrationFailed   = errors.New("registration failed, check the submitted details")
	ErrSessionExpired       = errors.New("session expired, log in again")
	ErrNotAuthenticated     = errors.New("not authenticated")

	// Transport errors
	ErrRequestExpired    = errors.New("request expired, try again")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNetwork           = errors.New("network failure")

	// General errors
	ErrNotFound = errors.New("not found")
)

// ValidationError is raised before any network call when user input is
// rejected locally.
type ValidationError struct {
	Fields map[string]string // field name -> problem
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, problem := range e.Fields {
		msgs = append(msgs, problem)
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}

// TransportError wraps failures that never produced a usable HTTP response:
// timeouts, connection errors and bodies that are not JSON.
type TransportError struct {
	Op  string // "GET /api/user/profile"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. Message carries the server's message when
// the body had one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
