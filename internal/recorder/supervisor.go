package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tick-recorder/internal/exchange"
	"tick-recorder/internal/metrics"
	"tick-recorder/internal/model"
	"tick-recorder/internal/store"
)

// Supervisor starts and stops recording sessions over a shared stream.
type Supervisor struct {
	cfg      Config
	resolver Resolver
	stream   Stream
	store    store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session

	wg sync.WaitGroup
}

// New creates a Supervisor. Zero config fields take defaults.
func New(cfg Config, resolver Resolver, stream Stream, st store.Store, m *metrics.Metrics, logger *slog.Logger) *Supervisor {
	def := DefaultConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.FirstTickTimeout <= 0 {
		cfg.FirstTickTimeout = def.FirstTickTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:      cfg,
		resolver: resolver,
		stream:   stream,
		store:    st,
		metrics:  m,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Start begins recording the given ticker. It resolves the instrument,
// subscribes it on the shared stream, waits for the first push and then
// spawns the recording loop. Duplicate starts for an active ticker
// return ErrAlreadyRecording.
func (sv *Supervisor) Start(ctx context.Context, ticker, accessToken string) (SessionStatus, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return SessionStatus{}, fmt.Errorf("empty ticker")
	}

	sess := &session{
		sup:    sv,
		ticker: ticker,
		state:  StateResolving,
	}

	sv.mu.Lock()
	if _, exists := sv.sessions[ticker]; exists {
		sv.mu.Unlock()
		return SessionStatus{}, ErrAlreadyRecording
	}
	sv.sessions[ticker] = sess
	sv.mu.Unlock()

	status, err := sv.launch(ctx, sess, accessToken)
	if err != nil {
		sv.mu.Lock()
		if sv.sessions[ticker] == sess {
			delete(sv.sessions, ticker)
		}
		sv.mu.Unlock()
		return SessionStatus{}, err
	}
	return status, nil
}

func (sv *Supervisor) launch(ctx context.Context, sess *session, accessToken string) (SessionStatus, error) {
	start := time.Now()
	inst, err := sv.resolver.Resolve(ctx, sess.ticker, accessToken)
	sv.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		sess.setState(StateFailed)
		return SessionStatus{}, fmt.Errorf("resolving %s: %w", sess.ticker, err)
	}
	sess.instrument = inst
	sess.key = model.Key(inst.ExchangeCode, inst.Token)
	sess.setState(StateSubscribing)

	sv.stream.SetAccessToken(accessToken)
	if !sv.stream.IsOpen() {
		if err := sv.stream.Open(ctx); err != nil {
			sess.setState(StateFailed)
			return SessionStatus{}, fmt.Errorf("opening stream: %w", err)
		}
	}

	if err := sv.stream.Subscribe(inst.ExchangeCode, inst.Token); err != nil {
		sess.setState(StateFailed)
		return SessionStatus{}, fmt.Errorf("subscribing %s: %w", sess.ticker, err)
	}

	select {
	case <-sv.stream.FirstTick(sess.key):
	case <-time.After(sv.cfg.FirstTickTimeout):
		if err := sv.stream.Unsubscribe(inst.ExchangeCode, inst.Token); err != nil {
			sv.logger.Warn("unsubscribe after timeout failed", "ticker", sess.ticker, "error", err)
		}
		sess.setState(StateFailed)
		return SessionStatus{}, fmt.Errorf("%w: %s", ErrNoData, sess.ticker)
	case <-ctx.Done():
		if err := sv.stream.Unsubscribe(inst.ExchangeCode, inst.Token); err != nil {
			sv.logger.Warn("unsubscribe after cancel failed", "ticker", sess.ticker, "error", err)
		}
		sess.setState(StateFailed)
		return SessionStatus{}, ctx.Err()
	}

	sess.id = uuid.New().String()
	sess.startedAt = time.Now()
	// Sessions outlive the HTTP request that started them; their
	// context roots at Background, not the caller's. A stop that
	// arrived during resolution or the first-tick wait found no cancel
	// func to call, so honor it here before the loop spawns.
	sv.mu.Lock()
	if sess.stopWasRequested() {
		sv.mu.Unlock()
		if err := sv.stream.Unsubscribe(inst.ExchangeCode, inst.Token); err != nil {
			sv.logger.Warn("unsubscribe after early stop failed", "ticker", sess.ticker, "error", err)
		}
		sess.setState(StateStopped)
		return SessionStatus{}, fmt.Errorf("%w: %s", ErrStopped, sess.ticker)
	}
	sess.ctx, sess.cancel = context.WithCancel(context.Background())
	sv.mu.Unlock()
	sess.setState(StateRecording)

	sv.metrics.ActiveSessions.Inc()
	sv.wg.Add(1)
	go sess.run()

	sv.logger.Info("recording started",
		"session", sess.id,
		"ticker", sess.ticker,
		"exchange", exchange.Name(inst.ExchangeCode),
		"token", inst.Token,
	)
	return sess.status(), nil
}

// Stop ends the session for the given ticker. Stopping a ticker that is
// not recording is a logged no-op.
func (sv *Supervisor) Stop(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	// The stop flag is raised under the same lock that launch checks
	// before spawning, so a stop always either sets the flag in time
	// or observes a non-nil cancel.
	sv.mu.Lock()
	sess, ok := sv.sessions[ticker]
	var cancel context.CancelFunc
	if ok {
		sess.requestStop()
		cancel = sess.cancel
	}
	sv.mu.Unlock()
	if !ok {
		sv.logger.Info("stop requested for inactive ticker", "ticker", ticker)
		return nil
	}

	if cancel != nil {
		cancel()
	}
	return nil
}

// Sessions returns a snapshot of all live sessions.
func (sv *Supervisor) Sessions() []SessionStatus {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	out := make([]SessionStatus, 0, len(sv.sessions))
	for _, sess := range sv.sessions {
		out = append(out, sess.status())
	}
	return out
}

// Shutdown stops every session and waits for their loops to drain, or
// until ctx expires.
func (sv *Supervisor) Shutdown(ctx context.Context) error {
	sv.mu.Lock()
	for _, sess := range sv.sessions {
		sess.requestStop()
		if sess.cancel != nil {
			sess.cancel()
		}
	}
	sv.mu.Unlock()

	done := make(chan struct{})
	go func() {
		sv.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		sv.logger.Info("all recording sessions stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish runs after a session loop exits. It unsubscribes the
// instrument and removes the session from the table.
func (sv *Supervisor) finish(sess *session) {
	if err := sv.stream.Unsubscribe(sess.instrument.ExchangeCode, sess.instrument.Token); err != nil {
		sv.logger.Warn("unsubscribe failed", "ticker", sess.ticker, "error", err)
	}

	sv.mu.Lock()
	if sv.sessions[sess.ticker] == sess {
		delete(sv.sessions, sess.ticker)
	}
	sv.mu.Unlock()

	sess.setState(StateStopped)
	sv.metrics.ActiveSessions.Dec()
	sv.logger.Info("recording stopped",
		"session", sess.id,
		"ticker", sess.ticker,
		"ticks_written", sess.written.Load(),
	)
}
