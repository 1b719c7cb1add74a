// Package async provides utilities for parallel task execution.
//
// It contains two helpers used by the provisioning subsystem: [RunChecks],
// which runs independent verification tasks concurrently with a per-task
// deadline and folds failures into a finding list, and [Queue], a background
// task queue for best-effort cleanup work that callers submit and forget.
package async

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Check is a named verification task. It returns an empty string on success
// or a human-readable finding on failure.
type Check struct {
	Name string
	Func func(context.Context) string
}

// RunChecks executes all checks in parallel, each bounded by timeout, and
// returns the non-empty findings in the order the checks were given. A check
// that panics, errors, or exceeds its deadline contributes a finding rather
// than aborting the others.
func RunChecks(ctx context.Context, timeout time.Duration, checks []Check) []string {
	if len(checks) == 0 {
		return nil
	}

	results := make([]string, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan string, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- fmt.Sprintf("%s check panicked: %v", check.Name, r)
					}
				}()
				done <- check.Func(checkCtx)
			}()

			select {
			case results[i] = <-done:
			case <-checkCtx.Done():
				results[i] = fmt.Sprintf("%s check did not complete: %v", check.Name, checkCtx.Err())
			}
		}()
	}
	wg.Wait()

	var findings []string
	for _, r := range results {
		if r != "" {
			findings = append(findings, r)
		}
	}
	return findings
}

// Task is a unit of background work with a name for logging.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Queue runs submitted tasks on a fixed pool of workers. It exists for
// fire-and-forget cleanup: callers can observe that a task was submitted,
// but never wait on its completion, and task errors are logged and dropped.
type Queue struct {
	ctx   context.Context
	tasks chan Task
	wg    sync.WaitGroup

	mu        sync.Mutex
	submitted []string
}

// NewQueue starts a queue with the given number of workers. The context
// bounds every task the queue will ever run.
func NewQueue(ctx context.Context, workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	q := &Queue{ctx: ctx, tasks: make(chan Task, 64)}
	for range workers {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for task := range q.tasks {
				if err := task.Func(ctx); err != nil {
					log.Printf("[async] background task %s failed: %v", task.Name, err)
				}
			}
		}()
	}
	return q
}

// Submit enqueues a task. It never blocks the caller: if the queue is full
// the task runs inline on a new goroutine instead.
func (q *Queue) Submit(task Task) {
	q.mu.Lock()
	q.submitted = append(q.submitted, task.Name)
	q.mu.Unlock()

	select {
	case q.tasks <- task:
	default:
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			if err := task.Func(q.ctx); err != nil {
				log.Printf("[async] background task %s failed: %v", task.Name, err)
			}
		}()
	}
}

// Submitted returns the names of all tasks submitted so far. Tests assert on
// submission because completion is intentionally unobservable.
func (q *Queue) Submitted() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.submitted...)
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (q *Queue) Close() {
	close(q.tasks)
	q.wg.Wait()
}
