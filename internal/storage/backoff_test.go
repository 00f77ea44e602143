package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryReadSucceedsAfterTransientFailures(t *testing.T) {
	cfg := BackoffConfig{InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, MaxAttempts: 5}
	attempts := 0
	n, result, err := RetryRead(context.Background(), cfg, func() (int, Result, error) {
		attempts++
		if attempts <= 2 {
			return 0, TransientFailure, errors.New("transient")
		}
		return 42, Success, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 || result != Success {
		t.Fatalf("want (42, Success), got (%d, %s)", n, result)
	}
	if attempts != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts)
	}
}

func TestRetryReadAcceptsEndOfFile(t *testing.T) {
	cfg := DefaultBackoffConfig()
	_, result, err := RetryRead(context.Background(), cfg, func() (int, Result, error) {
		return 0, EndOfFile, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != EndOfFile {
		t.Fatalf("want EndOfFile, got %s", result)
	}
}

func TestRetryReadFatalOnUnexpectedResult(t *testing.T) {
	cfg := DefaultBackoffConfig()
	_, _, err := RetryRead(context.Background(), cfg, func() (int, Result, error) {
		return 0, FatalFailure, errors.New("boom")
	})
	if err == nil {
		t.Fatal("want error for fatal result")
	}
}

func TestRetryReadExhaustsAttempts(t *testing.T) {
	cfg := BackoffConfig{InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, MaxAttempts: 3}
	attempts := 0
	_, _, err := RetryRead(context.Background(), cfg, func() (int, Result, error) {
		attempts++
		return 0, TransientFailure, errors.New("still transient")
	})
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts)
	}
}

func TestRetryAppendSucceedsAfterTransientFailures(t *testing.T) {
	cfg := BackoffConfig{InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, MaxAttempts: 5}
	attempts := 0
	err := RetryAppend(context.Background(), cfg, func() (Result, error) {
		attempts++
		if attempts == 1 {
			return TransientFailure, errors.New("transient")
		}
		return Success, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Fatalf("want 2 attempts, got %d", attempts)
	}
}
