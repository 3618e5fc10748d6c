package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ConfigError indicates missing or malformed configuration (credentials,
// proxy URL, TLS settings). Fatal: surfaced immediately, never retried.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.Err)
	}
	return "config error: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CacheError indicates the response cache is unreadable, unwritable, or
// corrupt. Warning-level: callers fall through to a live network call, but
// the condition is always observable.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// SigningError indicates the outbound request could not be assembled or
// its authorization header computed. Cannot happen for credentials that
// passed loading and the fixed request shapes; kept for completeness.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("building signed request failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// TimeoutError indicates the network call exceeded the configured timeout.
// Never cached.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError indicates a connection-level failure (DNS, TLS, refused
// connection, proxy) before any response was received. Never cached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError indicates the remote service was reached and answered with a
// non-2xx status. Carries the status code and any structured error body.
// Never cached.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return "API rejected the request as malformed:\n" + e.detail()
	case http.StatusUnauthorized, http.StatusForbidden:
		return "unable to authenticate with the API; check the credentials file"
	case http.StatusNotFound:
		return "the requested endpoint was not found on the server"
	case http.StatusMethodNotAllowed:
		return "the HTTP method is not allowed for this endpoint"
	case http.StatusTooManyRequests:
		return "too many requests: the API rate limit has been reached"
	default:
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
}

// detail pretty-prints a JSON error body, falling back to the raw bytes.
func (e *APIError) detail() string {
	var obj any
	if err := json.Unmarshal(e.Body, &obj); err == nil {
		if pretty, marshalErr := json.MarshalIndent(obj, "", "  "); marshalErr == nil {
			return string(pretty)
		}
	}
	return string(e.Body)
}

// IsAuth reports whether the error is an authentication failure.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// InvalidResponseError indicates a 2xx response whose body could not be
// parsed into the expected model.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid API response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// PollExhaustedError indicates an in-progress operation never completed
// within the polling attempt budget.
type PollExhaustedError struct {
	Attempts int
}

func (e *PollExhaustedError) Error() string {
	return fmt.Sprintf("operation still in progress after %d polling attempts", e.Attempts)
}
