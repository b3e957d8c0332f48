package executor

import (
	"log/slog"
	"time"
)

// Config holds the retry policy for an Executor.
type Config struct {
	// Classifier decides which statuses are transient and which operation
	// errors are retryable.
	// Default: DefaultClassifier()
	Classifier Classifier

	// Logger for retry decisions.
	// Default: slog.Default()
	Logger *slog.Logger

	// InitialDelay is the wait before the first retry.
	// Default: 250ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30 seconds
	MaxDelay time.Duration

	// Multiplier grows the delay each retry: delay = InitialDelay * (Multiplier ^ n).
	// Default: 2.0 (doubling)
	Multiplier float64

	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3
	MaxAttempts int
}

// Option is a functional option for configuring an Executor.
type Option func(*Config)

// WithMaxAttempts sets the total number of attempts, including the initial one.
//
// Example:
//
//	executor.WithMaxAttempts(5) // try up to 5 times total
func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		c.MaxAttempts = attempts
	}
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = delay
	}
}

// WithMultiplier sets the backoff growth factor.
//
// Example:
//
//	executor.WithMultiplier(1.5) // 50% growth per retry
func WithMultiplier(multiplier float64) Option {
	return func(c *Config) {
		c.Multiplier = multiplier
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(maxDelay time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = maxDelay
	}
}

// WithClassifier sets a custom transient/retryable classifier.
//
// Example:
//
//	executor.WithClassifier(&executor.StatusCodeClassifier{
//	    TransientStatuses: []int{429, 503},
//	})
func WithClassifier(classifier Classifier) Option {
	return func(c *Config) {
		c.Classifier = classifier
	}
}

// WithLogger sets a custom logger for retry decisions.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	executor.WithLogger(logger)
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns the retry policy used when no options are given:
// 3 attempts with delays of 250ms and 500ms between them.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Classifier:   DefaultClassifier(),
		Logger:       slog.Default(),
	}
}
