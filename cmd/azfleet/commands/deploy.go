package commands

import (
	"github.com/spf13/cobra"

	"github.com/azfleet/azfleet/cmd/azfleet/handlers"
)

// Deploy returns the deploy command.
//
// The deploy command renders a deployment from a worker template and
// submits it, creating the requested number of worker VMs.
func Deploy() *cobra.Command {
	var profilePath, templatePath string
	var count int

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision worker VMs from a template",
		Long: `Deploy renders a deployment descriptor from a worker template and
submits it to the subscription as an incremental deployment.

Example:
  azfleet deploy -p profile.yaml -t template.yaml -n 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), profilePath, templatePath, count)
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to subscription profile file (required)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Path to worker template file (required)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of workers to provision")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
