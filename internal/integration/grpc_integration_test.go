package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/service/common"
	"github.com/oshokin/timer-skill/internal/service/skill"
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeSettings stores a configuration for a headless daemon.
func writeSettings(t *testing.T, addr, statePath string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	settings := config.Defaults()
	settings.ListenAddress = addr
	settings.StateFile = statePath
	settings.Display = config.DisplayNone
	settings.Muted = true
	settings.CheckInterval = 50 * time.Millisecond
	settings.LogLevel = "error"

	require.NoError(t, config.Save(cfgPath, settings))

	return cfgPath
}

// startSkill runs the daemon in the background with a temporary configuration.
// The returned stop function cancels it and waits for it to return.
func startSkill(t *testing.T, addr, statePath string) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := writeSettings(t, addr, statePath)
	done := make(chan error, 1)

	go func() {
		options := &skill.Options{
			ConfigPath: cfgPath,
			NoConsole:  true,
		}

		done <- skill.Run(ctx, options)
	}()

	// Wait briefly for the server to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// TestGRPC_Roundtrip starts the real daemon and drives it through the client,
// including persistence across a restart.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	statePath := filepath.Join(t.TempDir(), "state.cbor")

	stop := startSkill(t, addr, statePath)

	ctx := context.Background()

	c, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	routed, err := c.Utter(ctx, "set a tea timer for 5 minutes")
	require.NoError(t, err)
	require.Equal(t, string(skill.IntentStart), routed.GetFields()["routed"].GetStringValue())

	_, err = c.Utter(ctx, "set a timer for 1 hour")
	require.NoError(t, err)

	listed, err := c.ListTimers(ctx)
	require.NoError(t, err)

	timers := listed.GetFields()["timers"].GetListValue().GetValues()
	require.Len(t, timers, 2)
	require.Equal(t, "tea", timers[0].GetStructValue().GetFields()["name"].GetStringValue())

	_, err = c.Utter(ctx, "cancel the tea timer")
	require.NoError(t, err)

	// Verify state was persisted to disk.
	_, err = os.Stat(statePath)
	require.NoError(t, err)

	stop()

	// A restarted daemon restores the remaining timer.
	stop = startSkill(t, addr, statePath)
	defer stop()

	restarted, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = restarted.Close()
	}()

	listed, err = restarted.ListTimers(ctx)
	require.NoError(t, err)

	timers = listed.GetFields()["timers"].GetListValue().GetValues()
	require.Len(t, timers, 1)
	require.Equal(t, "timer 1", timers[0].GetStructValue().GetFields()["name"].GetStringValue())
}
