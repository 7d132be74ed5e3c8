package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/common"
)

// clientFlags are shared by the commands talking to a running daemon.
type clientFlags struct {
	// address overrides the daemon address from the settings.
	address string
	// timeout overrides the call timeout from the settings.
	timeout time.Duration
}

func (f *clientFlags) register(command *cobra.Command) {
	command.Flags().StringVarP(&f.address, "address", "a", "", "daemon gRPC address")
	command.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "call timeout")
}

// withClient dials the daemon, calls fn and prints its response as JSON.
func (f *clientFlags) withClient(
	w io.Writer,
	fn func(ctx context.Context, client *common.Client) (proto.Message, error),
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Client commands only report problems.
	logger.SetLevel(zapcore.WarnLevel)

	ctx = logger.WithName(ctx, "timer-client")

	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	address := settings.ListenAddress
	if f.address != "" {
		address = f.address
	}

	timeout := settings.Timeout
	if f.timeout > 0 {
		timeout = f.timeout
	}

	options := []common.Option{common.WithCallTimeout(timeout)}

	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	} else {
		options = append(options, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, address, options...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	response, err := fn(ctx, client)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func newSayCommand() *cobra.Command {
	flags := new(clientFlags)

	command := &cobra.Command{
		Use:   "say <utterance...>",
		Short: "Send an utterance to a running daemon.",
		Long: `Sends transcribed text to the daemon as if it had been spoken, e.g.

  timer-skill say set a pasta timer for 10 minutes

While the daemon waits for an answer to one of its questions the text is
taken as the reply.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			return flags.withClient(cmd.OutOrStdout(),
				func(ctx context.Context, client *common.Client) (proto.Message, error) {
					return client.Utter(ctx, text)
				})
		},
	}

	flags.register(command)

	return command
}

func newListCommand() *cobra.Command {
	flags := new(clientFlags)

	command := &cobra.Command{
		Use:   "list",
		Short: "List the timers of a running daemon.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withClient(cmd.OutOrStdout(),
				func(ctx context.Context, client *common.Client) (proto.Message, error) {
					return client.ListTimers(ctx)
				})
		},
	}

	flags.register(command)

	return command
}
