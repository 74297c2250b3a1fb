package transcription

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
)

const (
	// MaxAttempts is the total number of provider calls per transcription
	MaxAttempts = 3
	// RetryDelay is the constant pause between attempts
	RetryDelay = 2 * time.Second
)

// FailedError is returned when every attempt failed. Err is the last provider error.
type FailedError struct {
	Attempts int
	Err      error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transcription failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Retrier wraps a Provider with bounded, fixed-delay retries.
// Every provider error is retried the same way.
type Retrier struct {
	provider    Provider
	maxAttempts int
	delay       time.Duration
	sleep       SleepFunc
	metrics     *metrics.Metrics
}

// NewRetrier creates a retrier with MaxAttempts and RetryDelay
func NewRetrier(provider Provider, m *metrics.Metrics) *Retrier {
	return &Retrier{
		provider:    provider,
		maxAttempts: MaxAttempts,
		delay:       RetryDelay,
		sleep:       sleepContext,
		metrics:     m,
	}
}

// WithSleep replaces the pause between attempts
func (r *Retrier) WithSleep(sleep SleepFunc) *Retrier {
	r.sleep = sleep
	return r
}

// ProviderName returns the wrapped provider's name
func (r *Retrier) ProviderName() string {
	return r.provider.Name()
}

// TranscribeWithRetry calls the provider until it succeeds or the attempts run out.
// A done context stops the loop and its error is returned unwrapped.
func (r *Retrier) TranscribeWithRetry(ctx context.Context, audioPath string, opts Options) (*Transcript, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return nil, err
			}
		}

		r.metrics.RecordAttempt(attempt > 1)
		transcript, err := r.provider.Transcribe(ctx, audioPath, opts)
		if err == nil {
			return transcript, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		log.Printf("Transcription attempt %d/%d with %s failed: %v",
			attempt, r.maxAttempts, r.provider.Name(), err)
	}

	r.metrics.RecordTranscriptionFailure()
	return nil, &FailedError{Attempts: r.maxAttempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
