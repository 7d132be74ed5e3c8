package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/timer-skill/internal/service/skill"
)

func newRunCommand() *cobra.Command {
	options := new(skill.Options)

	command := &cobra.Command{
		Use:   "run [listen-address]",
		Short: "Run the timer skill daemon.",
		Long: `Starts the timer skill: the expiration monitor, the gRPC control surface and,
when attached to a terminal, an interactive prompt.

The listen address can be provided as argument to override the settings
(e.g., 127.0.0.1:50061). Timers are persisted to the state file on every
change and restored on the next start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.ListenAddress = args[0]
			}

			options.ConfigPath = configPath

			return skill.Run(ctx, options)
		},
	}

	command.Flags().StringVarP(&options.StateFile, "state-file", "s", "", "path to persist timers")
	command.Flags().BoolVar(&options.NoConsole, "no-console", false, "do not read utterances from the terminal")

	return command
}
