package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/timer-skill/internal/service/watch"
)

func newWatchCommand() *cobra.Command {
	options := new(watch.Options)

	command := &cobra.Command{
		Use:   "watch [address]",
		Short: "Print the timers of a running daemon periodically.",
		Long: `Polls the daemon and prints every active timer with its time left.

With --exit-on-expired the command returns as soon as a timer has expired,
which lets scripts wait on a timer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.Address = args[0]
			}

			options.ConfigPath = configPath
			options.Output = cmd.OutOrStdout()

			return watch.Run(ctx, options)
		},
	}

	command.Flags().DurationVarP(&options.PollInterval, "interval", "i", watch.DefaultPollInterval, "poll interval")
	command.Flags().BoolVar(&options.ExitOnExpired, "exit-on-expired", false, "return once a timer has expired")

	return command
}
