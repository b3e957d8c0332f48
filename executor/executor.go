// Package executor provides a resilient request executor: it runs a single
// network operation with bounded retry and exponential backoff, retrying on
// network-level failures and on transient server statuses (429, 5xx) while
// passing every terminal result back to the caller unchanged.
//
// The executor is generic over the response type. It only needs a status
// accessor so it can classify a successful exchange as transient or terminal:
//
//	exec := executor.New(
//	    func(r *Response) int { return r.StatusCode },
//	    executor.WithMaxAttempts(3),
//	    executor.WithInitialDelay(250*time.Millisecond),
//	)
//
//	resp, err := exec.Execute(ctx, func(ctx context.Context) (*Response, error) {
//	    return doOneExchange(ctx)
//	})
//
// A non-nil error from Execute always means the final attempt failed at the
// network level; a transient status that survives every attempt comes back as
// a normal response so the caller can inspect it.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// Operation is a single network exchange. It returns the decoded-enough
// response for status classification, or an error for connection and timeout
// failures. The operation must be safe to invoke more than once.
type Operation[Resp any] func(ctx context.Context) (Resp, error)

// Executor retries an Operation according to its configured policy.
// Each Execute call gets a fresh backoff sequence; an Executor is safe for
// concurrent use.
type Executor[Resp any] struct {
	status     func(Resp) int
	config     *Config
	logger     *slog.Logger
	classifier Classifier
	stats      *executorStats
}

type executorStats struct {
	mu             sync.RWMutex
	totalAttempts  int64
	totalRetries   int64
	totalSuccesses int64
	totalFailures  int64
	lastError      error
}

// New creates an Executor for responses of type Resp. The status accessor
// extracts the HTTP status code the transient-status predicate is applied to.
func New[Resp any](status func(Resp) int, opts ...Option) *Executor[Resp] {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Classifier == nil {
		config.Classifier = DefaultClassifier()
	}

	return &Executor[Resp]{
		status:     status,
		config:     config,
		logger:     config.Logger,
		classifier: config.Classifier,
		stats:      &executorStats{},
	}
}

// transientError carries a transient-status response through the retry loop
// so the last response can be recovered when attempts run out.
type transientError[Resp any] struct {
	resp   Resp
	status int
}

func (e *transientError[Resp]) Error() string {
	return fmt.Sprintf("transient status %d", e.status)
}

// Execute runs the operation, retrying per the configured policy.
//
// Retry rules:
//   - operation error: retried if the classifier deems it retryable
//     (context cancellation never is); the final attempt's error propagates.
//   - transient status (429 or 5xx by default): the response is discarded
//     and the operation retried; when attempts run out the last transient
//     response is returned with a nil error.
//   - any other response is terminal and returned immediately.
func (e *Executor[Resp]) Execute(ctx context.Context, op Operation[Resp]) (Resp, error) {
	var zero Resp

	if e.config.MaxAttempts <= 0 {
		return zero, errors.New("max attempts must be positive")
	}

	// Don't attempt anything with an already-dead context.
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
	}

	var result Resp
	var attempts int

	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		attempts++

		e.stats.mu.Lock()
		e.stats.totalAttempts++
		if attempts > 1 {
			e.stats.totalRetries++
		}
		e.stats.mu.Unlock()

		resp, err := op(ctx)
		if err != nil {
			if !e.classifier.IsRetryableError(err) {
				e.logger.Debug("non-retryable failure, giving up",
					"attempt", attempts,
					"error", err)
				return err
			}
			e.logger.Debug("retrying after network failure",
				"attempt", attempts,
				"error", err)
			return retry.RetryableError(err)
		}

		if status := e.status(resp); e.classifier.IsTransientStatus(status) {
			e.logger.Debug("transient status, retrying",
				"attempt", attempts,
				"status", status)
			return retry.RetryableError(&transientError[Resp]{resp: resp, status: status})
		}

		result = resp
		return nil
	})
	if err != nil {
		// Attempts exhausted on a transient status: the last response is
		// still a terminal response for the caller, not a failure.
		var terr *transientError[Resp]
		if errors.As(err, &terr) {
			e.logger.Debug("attempts exhausted on transient status",
				"attempts", attempts,
				"status", terr.status)
			e.recordOutcome(true, nil)
			return terr.resp, nil
		}

		e.logger.Warn("request failed after retries",
			"attempts", attempts,
			"error", err)
		e.recordOutcome(false, err)
		return zero, err
	}

	if attempts > 1 {
		e.logger.Info("request succeeded after retry", "attempts", attempts)
	}
	e.recordOutcome(true, nil)
	return result, nil
}

func (e *Executor[Resp]) recordOutcome(success bool, err error) {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()
	if success {
		e.stats.totalSuccesses++
	} else {
		e.stats.totalFailures++
		e.stats.lastError = err
	}
}

// backoff builds a fresh delay sequence for one Execute call. The sequence is
// deterministic: initialDelay, then multiplied each retry, capped at MaxDelay.
// Note: retry.Do counts the initial attempt, so MaxAttempts-1 is passed to
// WithMaxRetries.
func (e *Executor[Resp]) backoff() retry.Backoff {
	maxRetries := e.config.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}

	return retry.WithMaxRetries(
		uint64(maxRetries),
		retry.WithCappedDuration(e.config.MaxDelay, e.exponential()),
	)
}

// exponential returns backoff delays of InitialDelay * (Multiplier ^ n).
// The doubling case uses the library implementation directly.
func (e *Executor[Resp]) exponential() retry.Backoff {
	multiplier := e.config.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	if multiplier == 2.0 {
		return retry.NewExponential(e.config.InitialDelay)
	}

	next := float64(e.config.InitialDelay)
	return retry.BackoffFunc(func() (time.Duration, bool) {
		d := time.Duration(next)
		next *= multiplier
		return d, false
	})
}

// Stats is a snapshot of executor counters.
type Stats struct {
	// TotalAttempts counts every operation invocation, initial or retry.
	TotalAttempts int64

	// TotalRetries counts attempts beyond the first of each Execute call.
	TotalRetries int64

	// TotalSuccesses counts Execute calls that returned a response,
	// including exhausted-transient responses.
	TotalSuccesses int64

	// TotalFailures counts Execute calls that returned an error.
	TotalFailures int64

	// LastError is the most recent terminal error, if any.
	LastError error
}

// GetStats returns a snapshot of the executor's counters. Safe for
// concurrent use.
func (e *Executor[Resp]) GetStats() Stats {
	e.stats.mu.RLock()
	defer e.stats.mu.RUnlock()

	return Stats{
		TotalAttempts:  e.stats.totalAttempts,
		TotalRetries:   e.stats.totalRetries,
		TotalSuccesses: e.stats.totalSuccesses,
		TotalFailures:  e.stats.totalFailures,
		LastError:      e.stats.lastError,
	}
}
