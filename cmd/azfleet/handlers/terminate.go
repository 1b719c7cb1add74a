package handlers

import (
	"context"
	"fmt"
)

// Terminate tears one worker down. The queue is drained before returning
// so the background network cleanup gets a chance to run in a short-lived
// CLI process.
func Terminate(ctx context.Context, profilePath, resourceGroup, vmName string) error {
	env, err := setup(ctx, profilePath)
	if err != nil {
		return err
	}
	defer env.close()

	if resourceGroup == "" {
		resourceGroup = env.profile.ResourceGroup
	}

	if err := env.orchestrator.Terminate(ctx, resourceGroup, vmName); err != nil {
		return err
	}
	fmt.Printf("worker %s terminated\n", vmName)
	return nil
}
