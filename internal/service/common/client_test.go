//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	api "github.com/oshokin/timer-skill/internal/api/grpc/timer"
	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestUtter_EmptyText asserts that blank utterances are rejected by the client.
func TestUtter_EmptyText(t *testing.T) {
	t.Parallel()

	c := new(Client)

	_, err := c.Utter(context.Background(), "  ")
	require.ErrorIs(t, err, errUtteranceRequired)
}

// skillStub answers the timer service over bufconn.
type skillStub struct {
	// actor is the last actor seen by Utter.
	actor *timer.Actor
	// text is the last routed utterance.
	text string
}

func (s *skillStub) Utter(ctx context.Context, text string) string {
	s.actor = api.ActorFromContext(ctx)
	s.text = text

	return "status"
}

func (s *skillStub) Timers() []*timer.Record {
	return []*timer.Record{{ID: "a", Name: "tea", Duration: time.Minute}}
}

func (s *skillStub) Now() time.Time { return time.Unix(0, 0) }

// TestClient_RoundTrip drives Utter and ListTimers against an in-memory server.
func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 20)
	stub := new(skillStub)

	srv := grpc.NewServer()
	api.Register(srv, api.NewServer(stub))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		srv.Stop()
	})

	actor := &timer.Actor{Hostname: "kitchen", Username: "cook"}
	client := NewClient(conn, WithActor(actor), WithCallTimeout(time.Second))

	routed, err := client.Utter(context.Background(), " how long is left ")
	require.NoError(t, err)
	require.Equal(t, "status", routed.GetFields()["routed"].GetStringValue())
	require.Equal(t, "how long is left", stub.text)
	require.Equal(t, actor, stub.actor)

	listed, err := client.ListTimers(context.Background())
	require.NoError(t, err)
	require.Len(t, listed.GetFields()["timers"].GetListValue().GetValues(), 1)

	require.NoError(t, client.Close())
}
