package infrastructure

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"jd-generator/domain"
)

// RetryingGenerator applies a retry policy around a single-attempt
// Generator. Only transport failures are retried; a model answer that does
// not parse is returned as is.
type RetryingGenerator struct {
	next     domain.Generator
	attempts int
	backoff  time.Duration
	log      *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewRetryingGenerator(next domain.Generator, attempts int, backoff time.Duration, log *zap.Logger) *RetryingGenerator {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingGenerator{
		next:     next,
		attempts: attempts,
		backoff:  backoff,
		log:      log,
		sleep:    sleepContext,
	}
}

func (r *RetryingGenerator) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.JobDescriptionContent, error) {
	wait := r.backoff
	var lastErr error
	for i := 1; i <= r.attempts; i++ {
		content, err := r.next.Generate(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) || !genErr.Retryable() || i == r.attempts {
			break
		}

		r.log.Warn("generation failed, retrying",
			zap.Int("attempt", i), zap.Duration("backoff", wait), zap.Error(err))
		if err := r.sleep(ctx, wait); err != nil {
			return nil, lastErr
		}
		wait *= 2
	}
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
