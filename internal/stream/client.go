package stream

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single authenticated websocket session with the provider
// feed. Keepalive is driven by the provider: it pings on its own
// schedule and the client answers with pongs. Liveness is enforced
// through read deadlines, so a wire with no pings and no ticks for
// PingTimeout surfaces as ErrStaleConnection on the Errors channel.
type Client interface {
	// Connect establishes the websocket connection.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection.
	Close() error

	// Send writes one command frame to the connection.
	Send(data []byte) error

	// Messages returns a channel of all raw frames, each stamped
	// with a local receive timestamp.
	Messages() <-chan TimestampedMessage

	// Errors returns a channel of connection errors.
	Errors() <-chan error

	// IsConnected returns current connection state.
	IsConnected() bool
}

const handshakeTimeout = 10 * time.Second

// client implements the Client interface.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool

	// Serializes command writes; control-frame replies go through
	// WriteControl, which gorilla allows concurrently.
	writeMu sync.Mutex

	messages chan TimestampedMessage
	errors   chan error
	done     chan struct{}
}

// NewClient creates a new websocket client.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan TimestampedMessage, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Connect performs the handshake and starts the read loop.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}

	// Any inbound traffic proves the feed is alive: pings, pongs and
	// tick frames all push the read deadline forward. When the wire
	// goes quiet for PingTimeout the pending read fails and the loop
	// reports a stale connection.
	c.extendDeadline(conn)
	conn.SetPingHandler(func(payload string) error {
		c.extendDeadline(conn)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(payload),
			time.Now().Add(c.cfg.WriteTimeout),
		)
	})
	conn.SetPongHandler(func(string) error {
		c.extendDeadline(conn)
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)

	c.logger.Debug("stream client connected", "url", c.cfg.URL)
	return nil
}

// extendDeadline pushes the read deadline one ping window ahead.
func (c *client) extendDeadline(conn *websocket.Conn) {
	if c.cfg.PingTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	}
}

// Close gracefully closes the connection.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn == nil {
		return nil
	}
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return conn.Close()
}

// Send writes one command frame with the configured write deadline.
func (c *client) Send(data []byte) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the messages channel.
func (c *client) Messages() <-chan TimestampedMessage {
	return c.messages
}

// Errors returns the errors channel.
func (c *client) Errors() <-chan error {
	return c.errors
}

// IsConnected returns the current connection state.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// readLoop pulls frames until the connection fails or is closed.
// Control frames are handled inside ReadMessage by the ping/pong
// handlers, so a blocked read still answers keepalives.
func (c *client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Mark disconnected before publishing so IsConnected is
			// already false when the error is observed.
			c.mu.Lock()
			c.connected = false
			c.mu.Unlock()

			select {
			case <-c.done:
				// Deliberate Close, not a failure.
			default:
				c.report(err)
			}
			return
		}
		c.extendDeadline(conn)

		select {
		case c.messages <- TimestampedMessage{Data: data, ReceivedAt: time.Now()}:
		default:
			c.logger.Warn("message buffer full, dropping frame",
				"buffered", len(c.messages),
			)
		}
	}
}

// report classifies a read failure and publishes it without blocking.
// A deadline expiry means nothing arrived for a full ping window.
func (c *client) report(err error) {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		c.logger.Warn("no traffic within ping window, connection stale",
			"timeout", c.cfg.PingTimeout,
		)
		err = ErrStaleConnection
	}
	select {
	case c.errors <- err:
	default:
	}
}
