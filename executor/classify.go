package executor

import (
	"context"
	"errors"
	"net/url"

	pkgerrors "github.com/JohnPlummer/jp-go-errors"
)

// Classifier decides retry behavior along two independent axes: whether a
// response status is transient, and whether an operation-level failure is
// worth retrying at all.
type Classifier interface {
	// IsTransientStatus returns true if the status code represents a
	// temporary server-side condition that warrants a retry.
	IsTransientStatus(status int) bool

	// IsRetryableError returns true if the operation failure is transient
	// (connection reset, timeout, rate limit) rather than terminal.
	IsRetryableError(err error) bool
}

// StatusCodeClassifier classifies by HTTP status code. With no explicit
// TransientStatuses it treats 429 and any 500-599 as transient.
type StatusCodeClassifier struct {
	// TransientStatuses overrides the default transient set when non-nil.
	TransientStatuses []int
}

// NewStatusCodeClassifier creates a classifier with the default transient
// set: 429 (rate limit) and every 5xx server error.
func NewStatusCodeClassifier() *StatusCodeClassifier {
	return &StatusCodeClassifier{}
}

// IsTransientStatus implements Classifier.
func (c *StatusCodeClassifier) IsTransientStatus(status int) bool {
	if c.TransientStatuses != nil {
		for _, s := range c.TransientStatuses {
			if s == status {
				return true
			}
		}
		return false
	}
	return status == 429 || (status >= 500 && status <= 599)
}

// IsRetryableError implements Classifier.
// Per-exchange timeouts are retryable and must be recognized FIRST: the
// net/http client reports an expired Client.Timeout as a *url.Error
// wrapping context.DeadlineExceeded, and only that wrapper distinguishes
// an expired exchange from a dead parent context. A generic net.Error
// check would not - context.DeadlineExceeded itself reports Timeout().
// Bare context errors are NOT retryable: retrying with the same context
// fails immediately.
func (c *StatusCodeClassifier) IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	// jp-go-errors sentinels for the common transient cases.
	if errors.Is(err, pkgerrors.ErrRateLimited) {
		return true
	}
	if pkgerrors.IsTimeout(err) {
		return true
	}

	// Anything else at this level is a network-layer failure (connection
	// refused, reset, DNS) and is worth another attempt.
	return true
}

// DefaultClassifier provides reasonable defaults for HTTP clients: 429 and
// 5xx statuses are transient, and every network failure short of context
// cancellation is retryable.
func DefaultClassifier() Classifier {
	return NewStatusCodeClassifier()
}
