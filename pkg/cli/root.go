// Package cli implements the clueaccess command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.1.0"
}

// NewRootCmd builds the top-level `clueaccess` command. With no arguments
// it attempts a database connection and reports the result.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clueaccess",
		Short:         "clueaccess — Cluetooth database access",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}
	root.AddCommand(NewCheckCmd())
	root.AddCommand(NewMigrateCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}
