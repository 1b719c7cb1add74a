package commands

import (
	"github.com/spf13/cobra"

	"github.com/azfleet/azfleet/cmd/azfleet/handlers"
)

// Terminate returns the terminate command.
//
// Teardown order: the VM first, then its OS disk blob, with network
// interface and public IP removal running as best-effort background work.
func Terminate() *cobra.Command {
	var profilePath, resourceGroup string

	cmd := &cobra.Command{
		Use:   "terminate <vm-name>",
		Short: "Tear down a worker VM and its associated resources",
		Long: `Terminate deletes the worker VM, removes its OS disk blob, and cleans
up the network interface and public IP derived from the VM name. A VM
that is already gone is not an error; associated-resource cleanup still
runs.

Example:
  azfleet terminate -p profile.yaml build3kx9f2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Terminate(cmd.Context(), profilePath, resourceGroup, args[0])
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to subscription profile file (required)")
	cmd.Flags().StringVarP(&resourceGroup, "resource-group", "g", "", "Resource group of the VM (defaults to the profile's)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
