package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeInstanceView(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		codes []string
		want  VMStatus
	}{
		{
			"running",
			[]string{"ProvisioningState/succeeded", "PowerState/running"},
			VMStatus{Phase: PhaseSucceeded, Power: PowerRunning},
		},
		{
			"order independent",
			[]string{"PowerState/running", "ProvisioningState/succeeded"},
			VMStatus{Phase: PhaseSucceeded, Power: PowerRunning},
		},
		{
			"creating without power code",
			[]string{"ProvisioningState/creating"},
			VMStatus{Phase: PhaseInProgress, Power: PowerUnknown},
		},
		{
			"failed",
			[]string{"ProvisioningState/failed", "PowerState/stopped"},
			VMStatus{Phase: PhaseFailed, Power: PowerStopped},
		},
		{
			"no codes at all",
			nil,
			VMStatus{Phase: PhaseInProgress, Power: PowerUnknown},
		},
		{
			"unrecognized power",
			[]string{"ProvisioningState/succeeded", "PowerState/rebooting"},
			VMStatus{Phase: PhaseSucceeded, Power: PowerUnknown},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DecodeInstanceView(tc.codes))
		})
	}
}

func TestVMStatus_Transitional(t *testing.T) {
	t.Parallel()
	// Any power code is stale while provisioning has not succeeded.
	status := DecodeInstanceView([]string{"ProvisioningState/creating", "PowerState/running"})
	assert.True(t, status.Transitional())
	assert.False(t, status.AliveOrHealthy())
}

func TestVMStatus_AliveOrHealthy(t *testing.T) {
	t.Parallel()
	dead := []PowerState{PowerStopping, PowerStopped, PowerDeallocated}
	for _, power := range dead {
		assert.False(t, VMStatus{Phase: PhaseSucceeded, Power: power}.AliveOrHealthy(), string(power))
	}
	alive := []PowerState{PowerRunning, PowerStarting, PowerDeallocating, PowerUnknown}
	for _, power := range alive {
		assert.True(t, VMStatus{Phase: PhaseSucceeded, Power: power}.AliveOrHealthy(), string(power))
	}
	assert.False(t, VMStatus{Phase: PhaseInProgress, Power: PowerRunning}.AliveOrHealthy())
}
