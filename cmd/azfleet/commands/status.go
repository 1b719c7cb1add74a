package commands

import (
	"github.com/spf13/cobra"

	"github.com/azfleet/azfleet/cmd/azfleet/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var profilePath, resourceGroup string

	cmd := &cobra.Command{
		Use:   "status <vm-name>",
		Short: "Show a worker VM's provisioning and power status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), profilePath, resourceGroup, args[0])
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to subscription profile file (required)")
	cmd.Flags().StringVarP(&resourceGroup, "resource-group", "g", "", "Resource group of the VM (defaults to the profile's)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
