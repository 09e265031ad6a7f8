package cmd

import "github.com/spf13/cobra"

// newVersionCmd creates the version subcommand: `ruloc version`.
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ruloc version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("ruloc version %s\n", version)
		},
	}
}
