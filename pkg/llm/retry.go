package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"copydesk/pkg/logx"
)

// RetryPolicy defines the attempt budget and backoff curve for a
// RetryingClient.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// Multiplier scales the delay after each failed retryable attempt.
	Multiplier float64
	// CallTimeout bounds each individual attempt; 0 means unbounded.
	CallTimeout time.Duration
}

// RetryingClient wraps a Client with bounded exponential backoff. Rate
// limiting and server-side faults are retried; terminal failures and
// cancellation surface immediately.
type RetryingClient struct {
	next   Client
	policy RetryPolicy
	logger *logx.Logger
}

// NewRetryingClient creates a retrying wrapper around next.
func NewRetryingClient(next Client, policy RetryPolicy, logger *logx.Logger) *RetryingClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = 1
	}
	if logger == nil {
		logger = logx.NewLogger("llm.retry")
	}
	return &RetryingClient{next: next, policy: policy, logger: logger}
}

// Generate implements Client. It fails with ErrRetryExhausted once every
// attempt is consumed, or with a KindCancelled error as soon as the context
// is done; cancellation is never retried.
func (r *RetryingClient) Generate(ctx context.Context, req Request) (*Result, error) {
	var lastErr *Error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.delay(attempt)
			r.logger.Debug("attempt %d/%d in %v after %s", attempt, r.policy.MaxAttempts, delay, lastErr.Kind)

			select {
			case <-ctx.Done():
				return nil, WrapError(KindCancelled, ctx.Err(), "cancelled while waiting to retry")
			case <-time.After(delay):
			}
		}

		attemptCtx := ctx
		cancel := func() {}
		if r.policy.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.policy.CallTimeout)
		}
		result, err := r.next.Generate(attemptCtx, req)
		cancel()

		if err == nil {
			return result, nil
		}

		// The run context going away dominates whatever the attempt
		// reported.
		if ctx.Err() != nil {
			return nil, WrapError(KindCancelled, ctx.Err(), "generation cancelled")
		}

		cerr := Classify(err)
		if !cerr.Retryable() {
			return nil, cerr
		}
		lastErr = cerr
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, r.policy.MaxAttempts, lastErr)
}

// ModelName delegates to the wrapped client.
func (r *RetryingClient) ModelName() string {
	return r.next.ModelName()
}

// delay computes the backoff before the given 1-based attempt number. The
// wait before attempt k+1 is InitialDelay * Multiplier^(k-1).
func (r *RetryingClient) delay(attempt int) time.Duration {
	return time.Duration(float64(r.policy.InitialDelay) * math.Pow(r.policy.Multiplier, float64(attempt-2)))
}
