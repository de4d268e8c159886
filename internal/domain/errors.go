package domain

import (
	"fmt"
	"time"
)

// ConfigurationError reports a bad or missing setting. It is raised locally and never retried.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InvalidInputError reports a malformed call argument.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// SearchAPIError is returned when the search endpoint rejects a request or answers with
// data that cannot be parsed. StatusCode is 0 when the HTTP exchange itself succeeded
// but the payload was unusable.
type SearchAPIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SearchAPIError) Error() string {
	return apiErrorText("search", e.StatusCode, e.Message)
}

func (e *SearchAPIError) Unwrap() error { return e.Err }

// ContentAPIError is the content endpoint's counterpart of SearchAPIError.
type ContentAPIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ContentAPIError) Error() string {
	return apiErrorText("content", e.StatusCode, e.Message)
}

func (e *ContentAPIError) Unwrap() error { return e.Err }

// TimeoutError reports that no response arrived in time. Duration is the bound that
// applied: the configured timeout, or the caller's remaining deadline when shorter.
type TimeoutError struct {
	Op       string
	Duration time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Duration)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout lets callers detect the error through the net.Error-style interface.
func (e *TimeoutError) Timeout() bool { return true }

func apiErrorText(api string, status int, msg string) string {
	if status == 0 {
		return fmt.Sprintf("%s API error: %s", api, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s API returned status %d", api, status)
	}
	return fmt.Sprintf("%s API returned status %d: %s", api, status, msg)
}
