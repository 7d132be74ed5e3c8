package skill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/timer-skill/internal/api/grpc/timer"
	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/repository/timers"
	"github.com/oshokin/timer-skill/internal/service/common"
	"github.com/oshokin/timer-skill/internal/service/console"
	"github.com/oshokin/timer-skill/internal/service/converse"
	"github.com/oshokin/timer-skill/internal/service/dialog"
	"github.com/oshokin/timer-skill/internal/service/display"
	"github.com/oshokin/timer-skill/internal/service/monitor"
	"github.com/oshokin/timer-skill/internal/service/notify"
	"github.com/oshokin/timer-skill/internal/service/store"
)

// Options controls the timer-skill daemon.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the gRPC listen address from the settings.
	ListenAddress string
	// StateFile overrides where timers are persisted.
	StateFile string
	// NoConsole disables the interactive prompt even on a terminal.
	NoConsole bool
}

// Run starts the skill and blocks until ctx is cancelled or the console is
// closed. Timers are persisted before it returns.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "timer-skill")

	// Load configuration first to get the skill settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Command line options win over the settings file.
	if opts.StateFile != "" {
		settings.StateFile = opts.StateFile
	}

	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Refuse to run next to another daemon sharing the state file.
	if err = common.EnsureSingleInstance(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The skill is created last; the console only needs it once lines arrive.
	var sk *Skill

	var (
		prompt *console.Console
		output io.Writer = os.Stdout
		asked            = make(chan struct{}, 1)
	)

	if !opts.NoConsole && isatty.IsTerminal(os.Stdin.Fd()) {
		prompt, err = console.New(console.HandlerFunc(func(ctx context.Context, text string) string {
			return sk.Utter(ctx, text)
		}), &console.Options{Asked: asked})
		if err != nil {
			return fmt.Errorf("initialise console: %w", err)
		}

		output = prompt.Stdout()
	}

	renderer, err := dialog.NewRenderer(settings.Language)
	if err != nil {
		return fmt.Errorf("initialise dialogs: %w", err)
	}

	screen, err := display.Select(settings.Display, output)
	if err != nil {
		return fmt.Errorf("select display: %w", err)
	}

	// Create the notification hub over speech, sound, display and the bus.
	hub := notify.NewHub(notify.HubOptions{
		Renderer: renderer,
		Output:   output,
		Sound:    notify.NewSound(settings.SoundFile, output),
		Screen:   screen,
		Bus:      notify.NewBus(settings.BusURL),
	})

	defer func() {
		if closeErr := hub.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close notifier", "error", closeErr)
		}
	}()

	timerStore := store.New()

	mon := monitor.New(&monitor.Options{
		Source:          timerStore,
		Notifier:        hub,
		Capacity:        screen.Capacity(),
		CheckInterval:   settings.CheckInterval,
		RepeatInterval:  settings.RepeatInterval,
		DisplayInterval: settings.DisplayInterval,
		RotateEvery:     settings.RotateEvery,
		Muted:           settings.Muted,
	})

	broker := converse.NewBroker(hub,
		converse.WithPauser(mon),
		converse.WithTimeout(settings.AskTimeout),
		converse.WithAskSignal(asked),
	)

	sk = New(&Deps{
		Store:          timerStore,
		Repository:     timers.NewFileRepository(settings.StateFile),
		Notifier:       hub,
		Conversation:   broker,
		MaxRounds:      settings.MaxRounds,
		AlarmThreshold: settings.AlarmThreshold,
	})

	// Restore timers from the previous run.
	sk.Load(ctx)

	logger.InfoKV(ctx, "Timer skill started",
		"state_file", settings.StateFile,
		"listen_address", settings.ListenAddress,
		"display", screen.Name(),
		"language", settings.Language,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return mon.Run(groupCtx)
	})

	if settings.ListenAddress != "" {
		group.Go(func() error {
			return serve(groupCtx, settings.ListenAddress, sk)
		})
	}

	if prompt != nil {
		group.Go(func() error {
			if runErr := prompt.Run(groupCtx); !errors.Is(runErr, console.ErrQuit) {
				return runErr
			}

			// Leaving the console stops the daemon.
			cancel()

			return nil
		})
	}

	runErr := group.Wait()

	// Persist after every worker stopped.
	shutdownErr := sk.Shutdown(context.WithoutCancel(ctx))

	return errors.Join(runErr, shutdownErr)
}

// serve runs the gRPC control surface until ctx is done.
func serve(ctx context.Context, listenAddress string, service api.Service) error {
	ctx = logger.WithName(ctx, "grpc")

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.Register(grpcServer, api.NewServer(service))
	healthServer := api.NewHealthServer(grpcServer)

	logger.InfoKV(ctx, "Control server listening", "listen_address", listenAddress)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err = grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}
