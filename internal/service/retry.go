package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"solana-sweeper/pkg/apperror"

	"github.com/rs/zerolog"
)

// RetryPolicy bounds how rate-limited ledger calls are retried.
type RetryPolicy struct {
	MaxRetries int // total attempts, including the first
	BaseDelay  time.Duration
	MaxJitter  time.Duration
}

// DefaultRetryPolicy returns 5 attempts with 5s base delay and up to 1s jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  5 * time.Second,
		MaxJitter:  time.Second,
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext waits on a timer so cancellation interrupts a backoff.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retrier re-issues rate-limited calls with exponential backoff and jitter.
// It holds no per-call state and is safe to share.
type Retrier struct {
	policy RetryPolicy
	sleep  SleepFunc
	jitter func(max time.Duration) time.Duration
	onRate func(op string)
	log    zerolog.Logger
}

// RetrierOption customises a Retrier.
type RetrierOption func(*Retrier)

// WithRetrySleep replaces the blocking sleep (tests use it to avoid real waits).
func WithRetrySleep(sleep SleepFunc) RetrierOption {
	return func(r *Retrier) { r.sleep = sleep }
}

// WithJitter replaces the uniform jitter source.
func WithJitter(jitter func(max time.Duration) time.Duration) RetrierOption {
	return func(r *Retrier) { r.jitter = jitter }
}

// WithRateLimitHook is called once per rate-limited attempt.
func WithRateLimitHook(fn func(op string)) RetrierOption {
	return func(r *Retrier) { r.onRate = fn }
}

// NewRetrier creates a Retrier for policy.
func NewRetrier(policy RetryPolicy, log zerolog.Logger, opts ...RetrierOption) *Retrier {
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}
	r := &Retrier{
		policy: policy,
		sleep:  sleepContext,
		jitter: uniformJitter,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func uniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max + 1) // #nosec G404 -- jitter only
}

// Policy returns the policy the Retrier was built with.
func (r *Retrier) Policy() RetryPolicy {
	return r.policy
}

// maxBackoffShift caps the exponent so the doubling cannot overflow.
const maxBackoffShift = 30

// Delay is the wait after zero-based attempt: BaseDelay * 2^attempt + U(0, MaxJitter).
// The result saturates at math.MaxInt64 instead of wrapping.
func (r *Retrier) Delay(attempt int) time.Duration {
	shift := min(max(attempt, 0), maxBackoffShift)
	backoff := r.policy.BaseDelay << shift
	if backoff>>shift != r.policy.BaseDelay {
		return math.MaxInt64
	}
	jitter := r.jitter(r.policy.MaxJitter)
	if backoff > math.MaxInt64-jitter {
		return math.MaxInt64
	}
	return backoff + jitter
}

// Execute calls fn until it succeeds, fails with something other than LDG_001, or the
// attempt budget is spent. In the last case the result is LDG_003 wrapping the final error.
// There is no sleep after the final attempt.
func Execute[T any](ctx context.Context, r *Retrier, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := r.policy.MaxRetries
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.log.Info().Str("op", op).Int("attempt", attempt+1).Msg("ledger call succeeded after rate limiting")
			}
			return v, nil
		}
		if !apperror.HasCode(err, apperror.CodeRateLimited) {
			return zero, err
		}
		lastErr = err
		if r.onRate != nil {
			r.onRate(op)
		}

		if attempt == attempts-1 {
			break
		}

		delay := r.Delay(attempt)
		r.log.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("delay", delay).
			Msg("rate limited, backing off")

		if err := r.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	r.log.Error().Err(lastErr).Str("op", op).Int("attempts", attempts).Msg("rate limit retries exhausted")
	return zero, apperror.ErrRetriesExhausted(op, attempts, lastErr)
}
