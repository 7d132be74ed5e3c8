package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/common"
	"github.com/oshokin/timer-skill/internal/service/dialog"
)

// Options controls the watch polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Address provides an optional gRPC address override.
	Address string
	// PollInterval defines the interval between polls.
	PollInterval time.Duration
	// ExitOnExpired stops watching once any timer has expired.
	ExitOnExpired bool
	// Output receives the timer lines; defaults to stdout.
	Output io.Writer
}

// DefaultPollInterval defines the polling interval when none is given.
const DefaultPollInterval = time.Second

// errTimerExpired indicates that an expired timer ended the watch.
var errTimerExpired = errors.New("timer expired")

// Run polls the daemon until ctx is cancelled or, with ExitOnExpired, a timer
// has expired.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "timer-watch")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	// Command line argument overrides the configured address.
	address := cfg.ListenAddress
	if opts.Address != "" {
		address = opts.Address
	}

	// Establish gRPC connection with timeout from configuration.
	client, err := common.Dial(ctx, address, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial timer skill: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching timers", "address", address, "interval", pollInterval.String())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			if err = poll(ctx, client, output, opts.ExitOnExpired); err != nil {
				if errors.Is(err, errTimerExpired) {
					logger.Info(ctx, "Timer expired, exiting")
					return nil
				}

				logger.ErrorKV(ctx, "Listing timers failed", "error", err)
			}
		}
	}
}

// poll lists the timers once and prints them.
func poll(ctx context.Context, client *common.Client, w io.Writer, exitOnExpired bool) error {
	response, err := client.ListTimers(ctx)
	if err != nil {
		return err
	}

	lines, expired := Format(response)
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}

	if exitOnExpired && expired {
		return errTimerExpired
	}

	return nil
}

// Format renders a ListTimers response as one line per timer and reports
// whether any timer has expired.
func Format(response *structpb.Struct) (lines []string, expired bool) {
	timers := response.GetFields()["timers"].GetListValue().GetValues()
	if len(timers) == 0 {
		return []string{"no active timers"}, false
	}

	lines = make([]string, 0, len(timers))

	for _, value := range timers {
		fields := value.GetStructValue().GetFields()

		name := fields["name"].GetStringValue()
		remaining := time.Duration(fields["remaining_seconds"].GetNumberValue() * float64(time.Second))

		if fields["expired"].GetBoolValue() {
			expired = true

			lines = append(lines, fmt.Sprintf("%-20s expired", name))

			continue
		}

		lines = append(lines, fmt.Sprintf("%-20s %s", name, dialog.FormatClock(remaining)))
	}

	return lines, expired
}
