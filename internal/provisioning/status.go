package provisioning

import "strings"

// ProvisioningPhase is the decoded ProvisioningState portion of an instance
// view.
type ProvisioningPhase string

const (
	PhaseSucceeded  ProvisioningPhase = "SUCCEEDED"
	PhaseInProgress ProvisioningPhase = "IN_PROGRESS"
	PhaseFailed     ProvisioningPhase = "FAILED"
)

// PowerState is the decoded PowerState portion of an instance view.
type PowerState string

const (
	PowerRunning      PowerState = "RUNNING"
	PowerStarting     PowerState = "STARTING"
	PowerStopping     PowerState = "STOPPING"
	PowerStopped      PowerState = "STOPPED"
	PowerDeallocating PowerState = "DEALLOCATING"
	PowerDeallocated  PowerState = "DEALLOCATED"
	PowerUnknown      PowerState = "UNKNOWN"
)

const (
	provisioningPrefix = "ProvisioningState/"
	powerPrefix        = "PowerState/"
)

// VMStatus is derived from an instance view, never stored.
type VMStatus struct {
	Phase ProvisioningPhase
	Power PowerState
}

// DecodeInstanceView scans the status-code list for the provisioning and
// power entries. The list is unordered and either entry may be absent, in
// which case the phase defaults to in-progress and the power to unknown.
func DecodeInstanceView(codes []string) VMStatus {
	status := VMStatus{Phase: PhaseInProgress, Power: PowerUnknown}
	for _, code := range codes {
		switch {
		case strings.HasPrefix(code, provisioningPrefix):
			status.Phase = decodePhase(strings.TrimPrefix(code, provisioningPrefix))
		case strings.HasPrefix(code, powerPrefix):
			status.Power = decodePower(strings.TrimPrefix(code, powerPrefix))
		}
	}
	return status
}

func decodePhase(value string) ProvisioningPhase {
	switch strings.ToLower(value) {
	case "succeeded":
		return PhaseSucceeded
	case "failed", "canceled":
		return PhaseFailed
	default:
		return PhaseInProgress
	}
}

func decodePower(value string) PowerState {
	switch strings.ToLower(value) {
	case "running":
		return PowerRunning
	case "starting":
		return PowerStarting
	case "stopping":
		return PowerStopping
	case "stopped":
		return PowerStopped
	case "deallocating":
		return PowerDeallocating
	case "deallocated":
		return PowerDeallocated
	default:
		return PowerUnknown
	}
}

// Transitional reports whether the machine is still provisioning or
// deprovisioning. Any reported power code is stale while this holds.
func (s VMStatus) Transitional() bool {
	return s.Phase != PhaseSucceeded
}

// AliveOrHealthy reports whether the machine can host a launch attempt:
// provisioning finished and it is not shutting down or shut down.
func (s VMStatus) AliveOrHealthy() bool {
	if s.Transitional() {
		return false
	}
	switch s.Power {
	case PowerStopping, PowerStopped, PowerDeallocated:
		return false
	}
	return true
}
