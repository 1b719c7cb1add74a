package commands

import (
	"github.com/spf13/cobra"

	"github.com/azfleet/azfleet/cmd/azfleet/handlers"
)

// Accounts returns the accounts command, listing the storage accounts a
// template's storage_account field can point at.
func Accounts() *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List storage accounts visible to the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Accounts(cmd.Context(), profilePath)
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to subscription profile file (required)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
