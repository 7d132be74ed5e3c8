package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/oshokin/timer-skill/internal/logger"
)

// DefaultPrompt is shown in front of every input line.
const DefaultPrompt = "timer> "

// ErrQuit is returned by Run when the user leaves the console.
var ErrQuit = errors.New("console closed by user")

// Handler receives utterances.
type Handler interface {
	// Utter handles text and returns the intent it was routed to.
	Utter(ctx context.Context, text string) string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, text string) string

// Utter calls f.
func (f HandlerFunc) Utter(ctx context.Context, text string) string {
	return f(ctx, text)
}

// Options configures a Console.
type Options struct {
	// Prompt overrides DefaultPrompt.
	Prompt string
	// Stdin replaces the terminal input, mostly for tests.
	Stdin io.ReadCloser
	// Stdout replaces the terminal output, mostly for tests.
	Stdout io.Writer
	// Interactive reports whether the input is a terminal. Nil means detect.
	Interactive func() bool
	// Asked signals that the line being handled waits for the next line as
	// its answer. Lines are otherwise handled strictly one after another.
	Asked <-chan struct{}
}

// Console is a readline-driven utterance source.
type Console struct {
	// rl is the line editor.
	rl *readline.Instance
	// handler receives the utterances.
	handler Handler
	// asked releases the next line while a question is pending.
	asked <-chan struct{}
	// inflight tracks dispatched lines.
	inflight sync.WaitGroup
}

// New creates a Console.
func New(handler Handler, opts *Options) (*Console, error) {
	if opts == nil {
		opts = new(Options)
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           opts.Stdin,
		Stdout:          opts.Stdout,
		FuncIsTerminal:  opts.Interactive,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}

	return &Console{
		rl:      rl,
		handler: handler,
		asked:   opts.Asked,
	}, nil
}

// Stdout returns a writer that keeps output from clobbering the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run reads lines until ctx is done or the user quits. It returns ErrQuit
// when the user left, nil when ctx was cancelled.
func (c *Console) Run(ctx context.Context) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "console")

	// Unblock Readline on shutdown.
	stop := context.AfterFunc(ctx, func() {
		_ = c.rl.Close()
	})

	lines := make(chan string)

	c.inflight.Go(func() {
		c.dispatch(ctx, lines)
	})

	defer func() {
		stop()

		_ = c.rl.Close()

		close(lines)
		c.inflight.Wait()
	}()

	c.printHelp()

	for {
		line, err := c.rl.Readline()

		switch {
		case ctx.Err() != nil:
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return ErrQuit
		}

		input := strings.TrimSpace(line)

		switch strings.ToLower(input) {
		case "":
			continue
		case "help", "?":
			c.printHelp()

			continue
		case "exit", "quit":
			return ErrQuit
		}

		select {
		case lines <- input:
		case <-ctx.Done():
			return nil
		}
	}
}

// dispatch hands lines to the handler in input order. The next line waits
// until the current one is handled or has asked a question it needs
// answered, so a quick reply never overtakes its question.
func (c *Console) dispatch(ctx context.Context, lines <-chan string) {
	for input := range lines {
		// Signals left by questions that were already answered.
		c.drainAsked()

		done := make(chan struct{})

		c.inflight.Go(func() {
			defer close(done)

			routed := c.handler.Utter(ctx, input)
			logger.DebugKV(ctx, "Line dispatched", "text", input, "routed", routed)
		})

		select {
		case <-done:
		case <-c.asked:
			logger.DebugKV(ctx, "Line awaits an answer", "text", input)
		case <-ctx.Done():
		}
	}
}

func (c *Console) drainAsked() {
	for {
		select {
		case <-c.asked:
		default:
			return
		}
	}
}

func (c *Console) printHelp() {
	_, _ = fmt.Fprintln(c.rl.Stdout(), `Say something, for example:
  set a pasta timer for 10 minutes
  how long is left on the pasta timer
  cancel the second timer
  stop
Type "exit" to leave.`)
}
