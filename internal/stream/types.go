package stream

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrNotOpen         = errors.New("connection not open")
	ErrStaleConnection = errors.New("connection stale (no traffic within ping window)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from the websocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// command is a subscription command sent to the provider.
type command struct {
	Action          string `json:"action"` // "subscribe" or "unsubscribe"
	ExchangeCode    int    `json:"exchangeCode"`
	InstrumentToken int64  `json:"instrumentToken"`
}

// ClientConfig configures a websocket client.
type ClientConfig struct {
	URL          string        // Websocket URL of the provider stream
	AccessToken  string        // Bearer credential for the handshake
	PingTimeout  time.Duration // Max quiet time (no pings, no ticks) before the connection is stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1000,
	}
}

// Config configures the shared stream connection.
type Config struct {
	URL          string        // Websocket URL of the provider stream
	PingTimeout  time.Duration // Passed through to the client
	WriteTimeout time.Duration // Passed through to the client
	QueueSize    int           // Per-subscription receive queue capacity
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		QueueSize:    1000,
	}
}
