package handlers

import (
	"context"
	"fmt"
)

// Status prints the decoded provisioning and power state of one worker.
func Status(ctx context.Context, profilePath, resourceGroup, vmName string) error {
	env, err := setup(ctx, profilePath)
	if err != nil {
		return err
	}
	defer env.close()

	if resourceGroup == "" {
		resourceGroup = env.profile.ResourceGroup
	}

	status, err := env.orchestrator.GetStatus(ctx, resourceGroup, vmName)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", vmName)
	fmt.Printf("  provisioning: %s\n", status.Phase)
	fmt.Printf("  power:        %s\n", status.Power)
	fmt.Printf("  launchable:   %t\n", status.AliveOrHealthy())
	return nil
}
