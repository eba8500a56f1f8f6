// Package retry wraps startup operations (dialing the node, pinging the
// database) in a retry policy. Request-time operations are never retried.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Config holds retry configuration
type Config struct {
	Enabled      bool          // Enable/disable retry mechanism
	MaxRetries   int           // Maximum number of retry attempts
	InitialDelay time.Duration // Initial delay before first retry
	MaxDelay     time.Duration // Maximum delay between retries
}

// Strategy defines the interface for retry strategies
type Strategy interface {
	// Execute runs the named operation with the configured retry logic
	Execute(ctx context.Context, name string, operation Operation) error

	// Name returns the name of the strategy for logging
	Name() string
}

// Operation is a function that can be retried
type Operation func(ctx context.Context) error

// NewStrategy creates a retry strategy based on configuration
func NewStrategy(config Config) Strategy {
	if !config.Enabled {
		slog.Info("Startup retry disabled, using NoRetryStrategy")
		return NewNoRetryStrategy()
	}

	slog.Info("Startup retry enabled, using ExponentialBackoffStrategy",
		"max_retries", config.MaxRetries,
		"initial_delay", config.InitialDelay,
		"max_delay", config.MaxDelay,
	)

	return NewExponentialBackoffStrategy(
		config.MaxRetries,
		config.InitialDelay,
		config.MaxDelay,
	)
}
