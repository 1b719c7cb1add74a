package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := Do(context.Background(), Fixed(5, time.Millisecond), operation)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 4 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := Do(context.Background(), Fixed(6, time.Millisecond), operation)

	if err != nil {
		t.Errorf("Expected no error after retries, got: %v", err)
	}
	if attempts != 4 {
		t.Errorf("Expected 4 attempts, got: %d", attempts)
	}
}

func TestDo_CeilingExceeded(t *testing.T) {
	t.Parallel()
	attempts := 0
	lastErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return lastErr
	}

	err := Do(context.Background(), Fixed(2, time.Millisecond), operation)

	if err == nil {
		t.Fatal("Expected error after exhausting attempts, got nil")
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("Expected last observed error to be wrapped, got: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got: %d", attempts)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("keep retrying")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Fixed(10, time.Hour), operation)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected cancellation before the second attempt, got %d attempts", attempts)
	}
}

func TestDo_FatalNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	fatal := errors.New("bad credentials")
	operation := func() error {
		attempts++
		return Fatal(fatal)
	}

	err := Do(context.Background(), Fixed(5, time.Millisecond), operation)

	if !errors.Is(err, fatal) {
		t.Errorf("Expected fatal error to surface, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for fatal error, got: %d", attempts)
	}
}

func TestExponential_IntervalGrowth(t *testing.T) {
	t.Parallel()
	s := Exponential(5, 100*time.Millisecond, 400*time.Millisecond)

	cases := []struct {
		retry int
		want  time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 400 * time.Millisecond}, // capped
	}
	for _, tc := range cases {
		if got := s.Interval(tc.retry); got != tc.want {
			t.Errorf("Interval(%d) = %v, want %v", tc.retry, got, tc.want)
		}
	}
}

func TestNone_SingleAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), None(), func() error {
		attempts++
		return errors.New("boom")
	})

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got: %d", attempts)
	}
}
