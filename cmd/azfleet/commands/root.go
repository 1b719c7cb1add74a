// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the azfleet CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "azfleet",
		Short: "Provision and manage Azure VM workers",
	}

	cmd.AddCommand(Accounts())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Terminate())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())

	return cmd
}
