package recorder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"tick-recorder/internal/dedup"
	"tick-recorder/internal/model"
	"tick-recorder/internal/normalize"
)

// session is one live recording of a single instrument.
type session struct {
	sup *Supervisor

	id         string
	ticker     string
	instrument model.Instrument
	key        model.SubscriptionKey
	startedAt  time.Time

	ctx    context.Context
	cancel context.CancelFunc

	stateMu       sync.Mutex
	state         State
	stopRequested bool

	written atomic.Uint64
}

func (s *session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// requestStop marks the session for termination. The flag survives
// later state transitions, so a stop that lands while Start is still
// resolving or waiting for the first tick is not lost.
func (s *session) requestStop() {
	s.stateMu.Lock()
	s.state = StateStopping
	s.stopRequested = true
	s.stateMu.Unlock()
}

func (s *session) stopWasRequested() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.stopRequested
}

func (s *session) status() SessionStatus {
	s.stateMu.Lock()
	st := s.state
	s.stateMu.Unlock()
	return SessionStatus{
		ID:           s.id,
		Ticker:       s.ticker,
		State:        st.String(),
		StartedAt:    s.startedAt,
		TicksWritten: s.written.Load(),
	}
}

// run is the recording loop. It drains the subscription queue,
// normalizes and deduplicates each push, and appends surviving ticks to
// storage. The loop exits when the session context is cancelled or the
// stream closes.
func (s *session) run() {
	defer s.sup.wg.Done()
	defer s.sup.finish(s)

	m := s.sup.metrics
	filter := dedup.New()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		raw, ok := s.sup.stream.Receive(s.key)
		if !ok {
			if !s.sup.stream.IsOpen() {
				s.sup.logger.Warn("stream closed, ending session",
					"session", s.id, "ticker", s.ticker)
				return
			}
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(s.sup.cfg.PollInterval):
			}
			continue
		}

		m.TicksReceived.Inc()

		tick, ok := normalize.Tick(raw, s.instrument.Symbol, s.instrument.ExchangeCode)
		if !ok {
			m.TicksMalformed.Inc()
			continue
		}
		if !filter.Keep(tick) {
			m.TicksDeduped.Inc()
			continue
		}

		start := time.Now()
		err := s.sup.store.Append(s.ctx, s.ticker, tick)
		m.AppendDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.WriteErrors.Inc()
			s.sup.logger.Error("tick append failed",
				"session", s.id, "ticker", s.ticker, "error", err)
			continue
		}

		m.TicksWritten.Inc()
		s.written.Add(1)
	}
}
