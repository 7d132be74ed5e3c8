package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command of the timer skill.
	rootCmd = &cobra.Command{
		Use:   "timer-skill",
		Short: "Voice assistant skill managing countdown timers.",
		Long: `Runs and controls a countdown timer skill for a voice assistant.

"run" starts the daemon: it reads transcribed utterances from the console and
the gRPC control surface, announces expired timers and keeps them on disk.
"say", "list" and "watch" talk to a running daemon.`,
		SilenceUsage: true,
	}
)

// Execute runs the timer-skill CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.AddCommand(newRunCommand(), newSayCommand(), newListCommand(), newWatchCommand())
}
