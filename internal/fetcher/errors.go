package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError describes a failed board request.
type FetchError struct {
	// URL is the request URL that failed.
	URL string

	// StatusCode is the HTTP status, or 0 when the request never
	// produced a response.
	StatusCode int

	// Transient marks failures worth retrying: network errors,
	// timeouts, throttling, and server-side errors. A 404 or a parse
	// failure is permanent.
	Transient bool

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.URL)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a fetch failure that may succeed
// on retry.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient
}

// statusTransient classifies an HTTP status code.
func statusTransient(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
