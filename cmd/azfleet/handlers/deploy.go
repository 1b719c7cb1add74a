package handlers

import (
	"context"
	"fmt"
)

// Deploy provisions count workers from the template and prints the
// deployment identity for later status and terminate calls.
func Deploy(ctx context.Context, profilePath, templatePath string, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	env, err := setup(ctx, profilePath)
	if err != nil {
		return err
	}
	defer env.close()

	template, err := loadTemplate(templatePath, env.profile)
	if err != nil {
		return err
	}

	if err := env.orchestrator.VerifyProfile(ctx); err != nil {
		return err
	}

	info, err := env.orchestrator.CreateDeployment(ctx, template, count)
	if err != nil {
		return err
	}

	fmt.Printf("deployment %s submitted\n", info.DeploymentName)
	for i := range info.Count {
		fmt.Printf("  worker: %s%d\n", info.VMBaseName, i)
	}
	return nil
}
