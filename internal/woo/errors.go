package woo

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConnection matches every failure to reach the store, including
	// settings that are too incomplete to try.
	ErrConnection = errors.New("store connection failed")
	// ErrNotFound matches a missing resource in both live and demo mode.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalid marks input rejected before any request is made.
	ErrInvalid = errors.New("invalid input")
)

// ConfigurationError reports missing store settings. It is raised before
// any network call.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("store %s is not configured", e.Field)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConnection
}

// ConnectionError wraps a transport-level failure (DNS, TLS, refused, timeout).
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// RemoteError is a non-2xx answer from the store API.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("store API error %d: %s", e.Status, e.Body)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
