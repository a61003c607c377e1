package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType tags errors crossing the orchestration boundary so callers can
// render the right status code and message.
type ErrorType string

const (
	ErrorUnauthorized      ErrorType = "unauthorized"
	ErrorInvalidNonce      ErrorType = "invalid_nonce"
	ErrorInvalidReview     ErrorType = "invalid_review"
	ErrorRateLimitExceeded ErrorType = "rate_limit_exceeded"
	ErrorAIFailure         ErrorType = "ai_failure"
)

// HTTPStatus returns the status code exposed for this error type.
func (t ErrorType) HTTPStatus() int {
	switch t {
	case ErrorUnauthorized:
		return http.StatusUnauthorized
	case ErrorInvalidNonce:
		return http.StatusForbidden
	case ErrorInvalidReview:
		return http.StatusBadRequest
	case ErrorRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidReviewError reports a review that fails structural or business
// validation. Client-input class, never retried.
type InvalidReviewError struct {
	Reason string
}

func (e *InvalidReviewError) Error() string {
	return e.Reason
}

// NewInvalidReview builds an InvalidReviewError with a formatted reason.
func NewInvalidReview(format string, args ...any) *InvalidReviewError {
	return &InvalidReviewError{Reason: fmt.Sprintf(format, args...)}
}

// RateLimitError reports an exceeded hourly or daily quota. ResetAt is the
// boundary of the current calendar window, not a rolling expiry.
type RateLimitError struct {
	Message string
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// AIFailure is the umbrella for provider-side failures: missing credentials,
// transport errors, non-200 status, malformed JSON, missing response fields,
// empty text. Debug carries diagnostic context that must only reach logs and
// CLI output, never end users.
type AIFailure struct {
	Message string
	Debug   map[string]string
}

func (e *AIFailure) Error() string {
	return e.Message
}

// NewAIFailure builds an AIFailure without debug context.
func NewAIFailure(format string, args ...any) *AIFailure {
	return &AIFailure{Message: fmt.Sprintf(format, args...)}
}

// Classify maps a pipeline error to its boundary tag. Unknown errors are
// treated as provider failures.
func Classify(err error) ErrorType {
	var invalid *InvalidReviewError
	if errors.As(err, &invalid) {
		return ErrorInvalidReview
	}
	var limited *RateLimitError
	if errors.As(err, &limited) {
		return ErrorRateLimitExceeded
	}
	return ErrorAIFailure
}
