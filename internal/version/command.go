package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	command := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print the skill version with commit hash, build timestamp and Go toolchain. Release builds inject the values from Git; local builds read the VCS stamp of the binary.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), Short())

				return
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	}

	command.Flags().BoolVar(&short, "short", false, "print only the semantic version")

	root.AddCommand(command)
	root.Version = Short()
}
