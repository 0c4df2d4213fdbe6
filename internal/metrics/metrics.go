// Package metrics registers the Prometheus instruments for the tick
// recording pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the recorder.
type Metrics struct {
	TicksReceived  prometheus.Counter
	TicksWritten   prometheus.Counter
	TicksDeduped   prometheus.Counter
	TicksMalformed prometheus.Counter
	WriteErrors    prometheus.Counter
	DroppedTicks   prometheus.Counter

	ActiveSessions prometheus.Gauge

	AppendDuration  prometheus.Histogram
	ResolveDuration prometheus.Histogram
}

// New registers and returns the recorder metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests can pass a fresh
// registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_ticks_received_total",
			Help: "Raw tick pushes received from the stream",
		}),
		TicksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_ticks_written_total",
			Help: "Tick records persisted to storage",
		}),
		TicksDeduped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_ticks_deduped_total",
			Help: "Ticks suppressed by the dedup filter",
		}),
		TicksMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_ticks_malformed_total",
			Help: "Tick pushes discarded for missing price or quantity",
		}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_write_errors_total",
			Help: "Storage append failures",
		}),
		DroppedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickrecorder_dropped_ticks_total",
			Help: "Ticks dropped because a subscription queue was full",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickrecorder_active_sessions",
			Help: "Recording sessions currently running",
		}),
		AppendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickrecorder_append_duration_seconds",
			Help:    "Storage append latency",
			Buckets: prometheus.DefBuckets,
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickrecorder_resolve_duration_seconds",
			Help:    "Instrument resolution latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.TicksReceived,
		m.TicksWritten,
		m.TicksDeduped,
		m.TicksMalformed,
		m.WriteErrors,
		m.DroppedTicks,
		m.ActiveSessions,
		m.AppendDuration,
		m.ResolveDuration,
	)

	return m
}
