package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrInvalidAPIKey     = errors.New("invalid API key")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnexpectedStatus  = errors.New("unexpected status")
)

// NetworkError reports that the provider could not be reached or did not answer in time.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or client timeout.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ProviderError reports that the provider answered, but with an error status or a body
// that could not be parsed. StatusCode is 0 for parse failures on a 2xx response.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider: %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider: %s: %v", e.Endpoint, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
