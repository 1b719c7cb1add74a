package commands

import (
	"github.com/spf13/cobra"

	"github.com/azfleet/azfleet/cmd/azfleet/handlers"
)

// Validate returns the validate command.
func Validate() *cobra.Command {
	var profilePath, templatePath string
	var failFast bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a worker template against the subscription",
		Long: `Validate runs field-level checks on the template, then verifies the
virtual network and image against the provider. Findings are printed one
per line; an empty output means the template is valid.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), profilePath, templatePath, failFast)
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to subscription profile file (required)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Path to worker template file (required)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing field check")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
