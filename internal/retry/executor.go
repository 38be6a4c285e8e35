package retry

import (
	"context"
	"time"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// OnRetryFunc is called before each retry with the zero-based retry number,
// the error that triggered it and the delay about to be waited.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

// Executor runs an operation, retrying transient failures with backoff.
// Safe for concurrent use.
type Executor struct {
	classifier fxload.ErrorClassifier
	strategy   fxload.BackoffStrategy
	onRetry    OnRetryFunc
}

// NewExecutor creates a retry executor. onRetry may be nil.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier fxload.ErrorClassifier, strategy fxload.BackoffStrategy, onRetry OnRetryFunc) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
		onRetry:    onRetry,
	}
}

// Execute runs operation until it succeeds, fails fatally, the context ends,
// or the strategy's attempts are exhausted. The last error is returned.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil || !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	for attempt := 0; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil || !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
