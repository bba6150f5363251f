package client

import (
	"context"
	"errors"
	"net/http"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as the providerErrorsTotal category label.
const (
	ErrorCategoryTimeout       ErrorCategory = "timeout"
	ErrorCategoryCanceled      ErrorCategory = "canceled"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryInvalidAPIKey ErrorCategory = "invalid_api_key"
	ErrorCategoryRateLimited   ErrorCategory = "rate_limited"
	ErrorCategoryUpstream4xx   ErrorCategory = "upstream_4xx"
	ErrorCategoryUpstream5xx   ErrorCategory = "upstream_5xx"
	ErrorCategoryParsing       ErrorCategory = "parsing"
	ErrorCategoryUnknown       ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		switch {
		case netErr.Timeout():
			return ErrorCategoryTimeout
		case errors.Is(err, context.Canceled):
			return ErrorCategoryCanceled
		default:
			return ErrorCategoryNetwork
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCategoryCanceled
	}

	if errors.Is(err, ErrInvalidAPIKey) {
		return ErrorCategoryInvalidAPIKey
	}
	if errors.Is(err, ErrRateLimited) {
		return ErrorCategoryRateLimited
	}
	if errors.Is(err, ErrMalformedResponse) {
		return ErrorCategoryParsing
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.StatusCode >= http.StatusInternalServerError {
			return ErrorCategoryUpstream5xx
		}
		if provErr.StatusCode >= http.StatusBadRequest {
			return ErrorCategoryUpstream4xx
		}
	}

	return ErrorCategoryUnknown
}
