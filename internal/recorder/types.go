package recorder

import (
	"context"
	"errors"
	"time"

	"tick-recorder/internal/model"
)

// Sentinel errors returned by the supervisor.
var (
	// ErrAlreadyRecording indicates a session for the ticker is active.
	ErrAlreadyRecording = errors.New("recording already active for ticker")

	// ErrNoData indicates no tick arrived within the first-tick window.
	ErrNoData = errors.New("no data received for instrument")

	// ErrStopped indicates the recording was stopped before its loop
	// ever started.
	ErrStopped = errors.New("recording stopped before start")
)

// Resolver maps a ticker to its instrument definition.
type Resolver interface {
	Resolve(ctx context.Context, ticker, accessToken string) (model.Instrument, error)
}

// Stream is the shared streaming connection as seen by the supervisor.
type Stream interface {
	SetAccessToken(token string)
	Open(ctx context.Context) error
	IsOpen() bool
	Subscribe(exchangeCode int, token int64) error
	Unsubscribe(exchangeCode int, token int64) error
	Receive(key model.SubscriptionKey) (model.RawTick, bool)
	FirstTick(key model.SubscriptionKey) <-chan struct{}
}

// State describes a session's lifecycle position.
type State int

const (
	StateResolving State = iota
	StateSubscribing
	StateRecording
	StateStopping
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateSubscribing:
		return "subscribing"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SessionStatus is a point-in-time snapshot of one session.
type SessionStatus struct {
	ID           string    `json:"id"`
	Ticker       string    `json:"ticker"`
	State        string    `json:"state"`
	StartedAt    time.Time `json:"started_at"`
	TicksWritten uint64    `json:"ticks_written"`
}

// Config holds supervisor tunables.
type Config struct {
	PollInterval     time.Duration // sleep between empty queue checks
	FirstTickTimeout time.Duration // wait for the first push after subscribe
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:     50 * time.Millisecond,
		FirstTickTimeout: 3 * time.Second,
	}
}
