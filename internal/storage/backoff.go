package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// BackoffConfig bounds the exponential backoff retry wrapper spec.md
// §4.3/§4.6/§6/§7 requires around transient storage failures.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxAttempts:  8,
	}
}

// RetryRead wraps a RandomReadFile.Read call with exponential backoff
// on TransientFailure. Success and EndOfFile are both acceptable
// terminal results (spec.md §4.3 step 3); any other result after
// exhausting MaxAttempts is fatal per spec.md §7.
func RetryRead(ctx context.Context, cfg BackoffConfig, read func() (int, Result, error)) (int, Result, error) {
	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		n, result, err := read()
		switch result {
		case Success, EndOfFile:
			return n, result, nil
		case TransientFailure:
			lastErr = err
			select {
			case <-ctx.Done():
				return 0, FatalFailure, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			continue
		default:
			return n, FatalFailure, errors.Wrapf(err, "fatal storage read result %s", result)
		}
	}
	return 0, FatalFailure, errors.Wrapf(lastErr, "exhausted %d retries", cfg.MaxAttempts)
}

// RetryAppend wraps a WriteFile.Append call with the same backoff
// policy as RetryRead, per spec.md §4.6.
func RetryAppend(ctx context.Context, cfg BackoffConfig, append func() (Result, error)) error {
	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := append()
		switch result {
		case Success:
			return nil
		case TransientFailure:
			lastErr = err
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			continue
		default:
			return errors.Wrapf(err, "fatal storage append result %s", result)
		}
	}
	return fmt.Errorf("exhausted %d append retries: %w", cfg.MaxAttempts, lastErr)
}
