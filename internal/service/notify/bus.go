package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/timer-skill/internal/logger"
)

// SkillID identifies this skill in bus message contexts.
const SkillID = "timer-skill"

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 2 * time.Second
)

// Message is a message bus frame.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
	Context map[string]any `json:"context"`
}

// NewMessage builds a frame originating from this skill.
func NewMessage(event string, data map[string]any) Message {
	if data == nil {
		data = map[string]any{}
	}

	return Message{
		Type:    event,
		Data:    data,
		Context: map[string]any{"source": SkillID},
	}
}

// Bus publishes messages to the host.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LogBus only logs published messages. It is used when no bus is configured.
type LogBus struct{}

// Publish implements Bus.
func (LogBus) Publish(ctx context.Context, msg Message) error {
	logger.DebugKV(ctx, "Bus event", "type", msg.Type, "data", msg.Data)

	return nil
}

// Close implements Bus.
func (LogBus) Close() error { return nil }

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("message bus closed")

// WebsocketBus publishes messages as JSON text frames over a websocket. It
// connects lazily and reconnects on the next publish after a failure.
type WebsocketBus struct {
	url    string
	dialer websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewWebsocketBus creates a bus client for url (ws:// or wss://).
func NewWebsocketBus(url string) *WebsocketBus {
	return &WebsocketBus{
		url: url,
		dialer: websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  handshakeTimeout,
			EnableCompression: false,
		},
	}
}

// Publish implements Bus.
func (b *WebsocketBus) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode bus message: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	if b.conn == nil {
		conn, resp, dialErr := b.dialer.DialContext(ctx, b.url, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		if dialErr != nil {
			return fmt.Errorf("connect to message bus: %w", dialErr)
		}

		b.conn = conn
	}

	_ = b.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err = b.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = b.conn.Close()
		b.conn = nil

		return fmt.Errorf("write bus message: %w", err)
	}

	return nil
}

// Close implements Bus.
func (b *WebsocketBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	if b.conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = b.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))

	err := b.conn.Close()
	b.conn = nil

	return err
}

// NewBus returns a WebsocketBus for url, or a LogBus when url is empty.
//
//nolint:ireturn // The concrete bus depends on configuration.
func NewBus(url string) Bus {
	if url == "" {
		return LogBus{}
	}

	return NewWebsocketBus(url)
}
