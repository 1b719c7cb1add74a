package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChecks_AllSucceed(t *testing.T) {
	t.Parallel()
	checks := []Check{
		{Name: "first", Func: func(context.Context) string { return "" }},
		{Name: "second", Func: func(context.Context) string { return "" }},
	}

	findings := RunChecks(context.Background(), time.Second, checks)
	assert.Empty(t, findings)
}

func TestRunChecks_FindingsKeepInputOrder(t *testing.T) {
	t.Parallel()
	checks := []Check{
		{Name: "slowFail", Func: func(context.Context) string {
			time.Sleep(50 * time.Millisecond)
			return "slow failure"
		}},
		{Name: "fastFail", Func: func(context.Context) string { return "fast failure" }},
	}

	findings := RunChecks(context.Background(), time.Second, checks)
	require.Len(t, findings, 2)
	assert.Equal(t, "slow failure", findings[0])
	assert.Equal(t, "fast failure", findings[1])
}

func TestRunChecks_TimeoutBecomesFinding(t *testing.T) {
	t.Parallel()
	checks := []Check{
		{Name: "network", Func: func(ctx context.Context) string {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return "too late to matter"
		}},
		{Name: "image", Func: func(context.Context) string { return "" }},
	}

	findings := RunChecks(context.Background(), 20*time.Millisecond, checks)

	// The timed-out check contributes exactly one finding; the successful
	// check contributes none.
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "network check did not complete")
}

func TestRunChecks_PanicBecomesFinding(t *testing.T) {
	t.Parallel()
	checks := []Check{
		{Name: "broken", Func: func(context.Context) string { panic("boom") }},
	}

	findings := RunChecks(context.Background(), time.Second, checks)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "broken check panicked")
}

func TestQueue_SubmissionObservable(t *testing.T) {
	t.Parallel()
	q := NewQueue(context.Background(), 2)
	defer q.Close()

	q.Submit(Task{Name: "remove-nic worker-1", Func: func(context.Context) error { return nil }})
	q.Submit(Task{Name: "remove-ip worker-1", Func: func(context.Context) error {
		return errors.New("swallowed")
	}})

	assert.Equal(t, []string{"remove-nic worker-1", "remove-ip worker-1"}, q.Submitted())
}

func TestQueue_RunsTasks(t *testing.T) {
	t.Parallel()
	q := NewQueue(context.Background(), 1)

	var ran atomic.Int32
	for range 5 {
		q.Submit(Task{Name: "task", Func: func(context.Context) error {
			ran.Add(1)
			return nil
		}})
	}
	q.Close()

	assert.Equal(t, int32(5), ran.Load())
}

func TestQueue_OverflowTasksShareQueueContext(t *testing.T) {
	t.Parallel()
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "queue")
	q := NewQueue(ctx, 1)

	release := make(chan struct{})
	q.Submit(Task{Name: "blocker", Func: func(context.Context) error {
		<-release
		return nil
	}})

	// Fill the buffer so the next submission overflows to an inline
	// goroutine, then verify it still runs under the constructor context.
	for range 64 {
		q.Submit(Task{Name: "filler", Func: func(context.Context) error { return nil }})
	}

	got := make(chan any, 1)
	q.Submit(Task{Name: "overflow", Func: func(taskCtx context.Context) error {
		got <- taskCtx.Value(ctxKey{})
		return nil
	}})
	close(release)

	select {
	case v := <-got:
		assert.Equal(t, "queue", v)
	case <-time.After(2 * time.Second):
		t.Fatal("overflow task never ran")
	}
	q.Close()
}

func TestQueue_SubmitNeverBlocks(t *testing.T) {
	t.Parallel()
	q := NewQueue(context.Background(), 1)

	release := make(chan struct{})
	q.Submit(Task{Name: "blocker", Func: func(context.Context) error {
		<-release
		return nil
	}})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			q.Submit(Task{Name: "filler", Func: func(context.Context) error { return nil }})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked the caller")
	}
	close(release)
	q.Close()
}
