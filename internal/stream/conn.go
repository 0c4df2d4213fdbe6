package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"tick-recorder/internal/model"
)

// subscription is one live channel on the shared connection.
type subscription struct {
	key       model.SubscriptionKey
	queue     chan model.RawTick
	first     chan struct{} // closed when the first tick arrives
	firstOnce sync.Once
}

// Conn is the Shared Stream Connection: one authenticated websocket
// session multiplexing many instrument subscriptions. It is
// constructed explicitly and injected into its consumers.
type Conn struct {
	cfg    Config
	logger *slog.Logger

	// newClient is swappable in tests.
	newClient func(ClientConfig, *slog.Logger) Client

	mu          sync.Mutex
	accessToken string
	client      Client
	open        bool
	subs        map[model.SubscriptionKey]*subscription
	onDrop      func(model.SubscriptionKey)
}

// Stats provides a snapshot of connection state.
type Stats struct {
	Open          bool
	Subscriptions int
}

// NewConn creates a shared stream connection. It does not dial until
// Open is called.
func NewConn(cfg Config, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		cfg:       cfg,
		logger:    logger,
		newClient: NewClient,
		subs:      make(map[model.SubscriptionKey]*subscription),
	}
}

// SetAccessToken replaces the credential used for the next Open. It
// does not reconnect by itself.
func (c *Conn) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// OnDrop registers a hook invoked each time a tick is discarded
// because its subscription queue is full.
func (c *Conn) OnDrop(fn func(model.SubscriptionKey)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDrop = fn
}

// Open performs the provider handshake. Idempotent: opening an
// already-open connection is a no-op.
func (c *Conn) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open && c.client != nil && c.client.IsConnected() {
		return nil
	}

	client := c.newClient(ClientConfig{
		URL:          c.cfg.URL,
		AccessToken:  c.accessToken,
		PingTimeout:  c.cfg.PingTimeout,
		WriteTimeout: c.cfg.WriteTimeout,
		BufferSize:   c.cfg.QueueSize,
	}, c.logger)

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	c.client = client
	c.open = true

	go c.dispatch(client)

	c.logger.Info("stream connection opened", "url", c.cfg.URL)
	return nil
}

// IsOpen is a non-blocking liveness check.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open && c.client != nil && c.client.IsConnected()
}

// Close terminates the underlying connection. All per-key queues are
// dropped; Receive returns nothing for any key until Open succeeds
// again and keys are re-subscribed.
func (c *Conn) Close() error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.open = false
	c.subs = make(map[model.SubscriptionKey]*subscription)
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// Subscribe registers interest in an (exchange code, token) pair and
// lazily creates its receive queue. Re-subscribing an existing key is
// a no-op and never creates a duplicate channel.
func (c *Conn) Subscribe(exchangeCode int, token int64) error {
	key := model.Key(exchangeCode, token)

	c.mu.Lock()
	if _, exists := c.subs[key]; exists {
		c.mu.Unlock()
		return nil
	}
	if !c.open || c.client == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}

	sub := &subscription{
		key:   key,
		queue: make(chan model.RawTick, c.cfg.QueueSize),
		first: make(chan struct{}),
	}
	c.subs[key] = sub
	client := c.client
	c.mu.Unlock()

	data, _ := json.Marshal(command{
		Action:          "subscribe",
		ExchangeCode:    exchangeCode,
		InstrumentToken: token,
	})
	if err := client.Send(data); err != nil {
		c.mu.Lock()
		delete(c.subs, key)
		c.mu.Unlock()
		return fmt.Errorf("send subscribe: %w", err)
	}

	c.logger.Debug("subscribed", "key", key)
	return nil
}

// Unsubscribe cancels provider-side interest and removes the receive
// queue. Unsubscribing a key with no subscription is a no-op.
func (c *Conn) Unsubscribe(exchangeCode int, token int64) error {
	key := model.Key(exchangeCode, token)

	c.mu.Lock()
	if _, exists := c.subs[key]; !exists {
		c.mu.Unlock()
		return nil
	}
	delete(c.subs, key)
	client := c.client
	open := c.open
	c.mu.Unlock()

	if !open || client == nil {
		return nil
	}

	data, _ := json.Marshal(command{
		Action:          "unsubscribe",
		ExchangeCode:    exchangeCode,
		InstrumentToken: token,
	})
	if err := client.Send(data); err != nil {
		return fmt.Errorf("send unsubscribe: %w", err)
	}

	c.logger.Debug("unsubscribed", "key", key)
	return nil
}

// Receive polls the per-key queue without blocking. It returns false
// when no tick is pending or the key has no subscription.
func (c *Conn) Receive(key model.SubscriptionKey) (model.RawTick, bool) {
	c.mu.Lock()
	sub := c.subs[key]
	c.mu.Unlock()

	if sub == nil {
		return model.RawTick{}, false
	}

	select {
	case raw := <-sub.queue:
		return raw, true
	default:
		return model.RawTick{}, false
	}
}

// FirstTick returns a channel that is closed once the first tick for
// the key has been delivered. It returns nil when the key has no
// subscription; a nil channel never fires.
func (c *Conn) FirstTick(key model.SubscriptionKey) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub := c.subs[key]; sub != nil {
		return sub.first
	}
	return nil
}

// Stats returns a snapshot of connection state.
func (c *Conn) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Open:          c.open && c.client != nil && c.client.IsConnected(),
		Subscriptions: len(c.subs),
	}
}

// dispatch routes provider pushes into per-key queues until the
// client reports an error or closes.
func (c *Conn) dispatch(client Client) {
	for {
		select {
		case err := <-client.Errors():
			c.logger.Warn("stream connection error", "error", err)
			c.markClosed(client)
			return

		case msg, ok := <-client.Messages():
			if !ok {
				c.markClosed(client)
				return
			}
			c.deliver(msg.Data)
		}
	}
}

// deliver decodes one push and enqueues it for its subscription.
func (c *Conn) deliver(data []byte) {
	var raw model.RawTick
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Debug("dropping unparseable frame", "error", err)
		return
	}
	if raw.Token == 0 {
		// Command ack or heartbeat frame, not a tick.
		return
	}

	key := raw.Key()

	c.mu.Lock()
	sub := c.subs[key]
	onDrop := c.onDrop
	c.mu.Unlock()

	if sub == nil {
		c.logger.Debug("tick for unsubscribed key", "key", key)
		return
	}

	select {
	case sub.queue <- raw:
		sub.firstOnce.Do(func() { close(sub.first) })
	default:
		if onDrop != nil {
			onDrop(key)
		}
		c.logger.Warn("receive queue full, dropping tick", "key", key)
	}
}

// markClosed flips the open flag if the failed client is still the
// active one; a newer client from a later Open is left untouched.
func (c *Conn) markClosed(client Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == client {
		c.open = false
	}
}
