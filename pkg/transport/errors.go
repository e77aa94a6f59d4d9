package transport

import (
	"fmt"
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: %s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// FetchError wraps a failure while acquiring field definitions.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("transport: fetch fields from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SubmitError wraps a failed submission.
type SubmitError struct {
	URL string
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("transport: submit to %s: %v", e.URL, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
