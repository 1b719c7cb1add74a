package provisioning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVMRecord_MarkDeleteIsMonotonic(t *testing.T) {
	t.Parallel()
	record := &VMRecord{Name: "worker-0"}

	record.MarkDelete("CONN_FAIL")
	assert.Equal(t, CleanupAction{Kind: CleanupDelete, Reason: "CONN_FAIL"}, record.Cleanup())

	// A later, less specific classification does not replace the first.
	record.MarkDelete("GENERIC")
	assert.Equal(t, "CONN_FAIL", record.Cleanup().Reason)

	// Retain never downgrades a delete.
	record.Retain()
	assert.Equal(t, CleanupDelete, record.Cleanup().Kind)
}

func TestVMRecord_ClearCleanup(t *testing.T) {
	t.Parallel()
	record := &VMRecord{Name: "worker-0"}
	record.MarkDelete("AUTH_FAIL")

	// A successful reconnect is the one path that reverts a delete.
	record.ClearCleanup()
	assert.Equal(t, CleanupAction{}, record.Cleanup())
}

func TestVMRecord_ReleaseRetain(t *testing.T) {
	t.Parallel()
	record := &VMRecord{Name: "worker-0"}
	record.Retain()
	record.ReleaseRetain()
	assert.Equal(t, CleanupAction{}, record.Cleanup())

	// Releasing a retain never reverts a delete recorded earlier.
	record.MarkDelete("RUNTIME_NOT_FOUND")
	record.Retain()
	record.ReleaseRetain()
	assert.Equal(t, CleanupAction{Kind: CleanupDelete, Reason: "RUNTIME_NOT_FOUND"}, record.Cleanup())
}

func TestVMRecord_Retain(t *testing.T) {
	t.Parallel()
	record := &VMRecord{Name: "worker-0"}
	record.Retain()
	assert.Equal(t, CleanupRetain, record.Cleanup().Kind)
}

func TestVMRecord_ConcurrentMutation(t *testing.T) {
	t.Parallel()
	record := &VMRecord{Name: "worker-0"}

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			record.MarkDelete("CONN_FAIL")
		}()
		go func() {
			defer wg.Done()
			record.Retain()
		}()
	}
	wg.Wait()

	// The final action must be exactly one writer's value, never torn.
	got := record.Cleanup()
	switch got.Kind {
	case CleanupDelete:
		assert.Equal(t, "CONN_FAIL", got.Reason)
	case CleanupRetain:
		assert.Empty(t, got.Reason)
	default:
		t.Fatalf("unexpected cleanup action %+v", got)
	}
}
