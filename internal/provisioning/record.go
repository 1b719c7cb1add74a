package provisioning

import "sync"

// CleanupKind classifies the deferred teardown decision on a worker.
type CleanupKind int

const (
	// CleanupNone means no decision has been made.
	CleanupNone CleanupKind = iota

	// CleanupRetain blocks the reaper while a launch attempt is running.
	CleanupRetain

	// CleanupDelete marks the worker for teardown by the reaper.
	CleanupDelete
)

// CleanupAction is the decision plus, for deletions, the classified cause.
type CleanupAction struct {
	Kind   CleanupKind
	Reason string
}

// VMRecord tracks one provisioned machine. Credentials are copied from the
// template at creation time and never re-read. The cleanup action is written
// by both the orchestrator and the bootstrap launcher, so access goes
// through the mutex.
type VMRecord struct {
	Name          string
	ResourceGroup string
	Address       string
	Port          int
	AdminUser     string
	AdminPassword string

	mu      sync.Mutex
	cleanup CleanupAction
}

// Cleanup returns the current action.
func (r *VMRecord) Cleanup() CleanupAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleanup
}

// MarkDelete records a teardown decision. A delete overwrites none or
// retain; a reason already recorded by an earlier delete is kept, since the
// first classification is the most specific one.
func (r *VMRecord) MarkDelete(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleanup.Kind == CleanupDelete {
		return
	}
	r.cleanup = CleanupAction{Kind: CleanupDelete, Reason: reason}
}

// Retain blocks the reaper unless a delete has already been recorded.
func (r *VMRecord) Retain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleanup.Kind == CleanupDelete {
		return
	}
	r.cleanup = CleanupAction{Kind: CleanupRetain}
}

// ReleaseRetain lifts a retain without touching a delete. Callers that
// retained a record and then gave up use this so they never revert a
// teardown decision made elsewhere.
func (r *VMRecord) ReleaseRetain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleanup.Kind != CleanupRetain {
		return
	}
	r.cleanup = CleanupAction{}
}

// ClearCleanup resets the action after a successful attach. This is the one
// path that reverts a delete: a machine that connects again is healthy.
func (r *VMRecord) ClearCleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanup = CleanupAction{}
}
