// Package handlers implements the CLI command logic.
package handlers

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/azfleet/azfleet/internal/catalog"
	"github.com/azfleet/azfleet/internal/config"
	"github.com/azfleet/azfleet/internal/platform/azure"
	"github.com/azfleet/azfleet/internal/provisioning"
	"github.com/azfleet/azfleet/internal/util/async"
)

const cleanupWorkers = 2

// environment bundles everything a handler needs for one invocation.
type environment struct {
	profile      *config.Profile
	client       azure.Client
	locations    *catalog.Catalog
	orchestrator *provisioning.Orchestrator
	queue        *async.Queue
}

// newClient builds the provider client for a profile. Replaced in tests.
var newClient = func(profile *config.Profile) (azure.Client, error) {
	cred, err := profile.Credential()
	if err != nil {
		return nil, err
	}
	return azure.NewRealClient(profile.SubscriptionID, cred, profile.ARMOptions(),
		azure.WithBlobEndpointSuffix(profile.BlobEndpointSuffix()))
}

// templateValidator is the slice of the validator the handlers call.
type templateValidator interface {
	Validate(ctx context.Context, template *provisioning.WorkerTemplate, failFast bool) []string
}

// newValidator builds the template validator for an environment. Replaced
// in tests.
var newValidator = func(e *environment) templateValidator {
	return provisioning.NewValidator(e.client, e.locations)
}

func setup(ctx context.Context, profilePath string) (*environment, error) {
	profile, err := config.LoadFile(profilePath)
	if err != nil {
		return nil, err
	}
	client, err := newClient(profile)
	if err != nil {
		return nil, err
	}
	locations := catalog.ForManagementURL(profile.ManagementURL)
	queue := async.NewQueue(ctx, cleanupWorkers)
	return &environment{
		profile:      profile,
		client:       client,
		locations:    locations,
		orchestrator: provisioning.NewOrchestrator(client, locations, queue),
		queue:        queue,
	}, nil
}

func (e *environment) close() {
	e.queue.Close()
}

// loadTemplate reads a worker template file. The profile's resource group
// is used when the template does not name its own.
func loadTemplate(path string, profile *config.Profile) (*provisioning.WorkerTemplate, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	var template provisioning.WorkerTemplate
	if err := yaml.Unmarshal(data, &template); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	if template.ResourceGroup == "" {
		template.ResourceGroup = profile.ResourceGroup
	}
	if template.Name == "" {
		return nil, fmt.Errorf("template has no name")
	}
	return &template, nil
}
