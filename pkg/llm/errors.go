package llm

import (
	"errors"
	"fmt"
)

// ErrUnknownProvider indicates the provider tag matches no backend.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrMissingCredential indicates the backend's API key is not configured.
var ErrMissingCredential = errors.New("missing provider credential")

// ErrEmptyResponse indicates the backend returned no usable text.
var ErrEmptyResponse = errors.New("empty provider response")

// ErrMalformedOutput indicates the backend returned valid JSON that is missing
// the required type/content fields.
var ErrMalformedOutput = errors.New("provider output missing required fields")

// BackendError wraps any transport or protocol failure from a backend.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
