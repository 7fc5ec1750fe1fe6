package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any request is built when no API key is configured.
	ErrMissingCredential = errors.New("ai: API credential is not configured")

	// ErrMissingField marks a response that parsed but lacks a required field.
	ErrMissingField = errors.New("required field missing")

	// ErrScoreOutOfRange marks a health score outside 0 to 10.
	ErrScoreOutOfRange = errors.New("health score out of range")
)

// ParseError is returned when a completion cannot be turned into the expected shape.
// Raw holds the completion text exactly as the model returned it.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx answer from the completion endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError is a completion request that never got an HTTP answer.
// Err is the HTTP client's error, unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send completion request: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func missingField(raw, name string) error {
	return &ParseError{Raw: raw, Err: fmt.Errorf("%w: %s", ErrMissingField, name)}
}
