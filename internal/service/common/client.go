//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/timer-skill/internal/api/grpc/timer"
	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// Client wraps the gRPC TimerService with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the skill daemon.
	conn grpc.ClientConnInterface
	// closer releases conn; nil when the connection is borrowed.
	closer func() error
	// actor is attached to every request when set.
	actor *timer.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the actor to every request.
func WithActor(actor *timer.Actor) Option {
	return func(c *Client) {
		c.actor = actor.Clone()
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errUtteranceRequired is returned when an empty utterance is sent.
	errUtteranceRequired = errors.New("utterance must be provided")
)

// Dial establishes a gRPC connection to the skill daemon.
// Note: this uses insecure transport credentials; the control surface is
// meant to listen on loopback.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial timer skill: %w", err)
	}

	client := NewClient(conn, opts...)
	client.closer = conn.Close

	return client, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn grpc.ClientConnInterface, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}

	return c.closer()
}

// Utter sends a transcribed utterance to the skill.
func (c *Client) Utter(ctx context.Context, text string) (*structpb.Struct, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errUtteranceRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.UtterMethod, wrapperspb.String(text), response); err != nil {
		return nil, fmt.Errorf("utter: %w", err)
	}

	return response, nil
}

// ListTimers retrieves the active timers.
func (c *Client) ListTimers(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.ListTimersMethod, new(emptypb.Empty), response); err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}

	return response, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, if
// any, travels in outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = api.ActorToContext(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
