// Package dedup suppresses repeated identical trade updates.
//
// The provider re-pushes the last known trade on many unrelated events
// (depth-only changes, heartbeats). Filtering on (LTP, LTQ) changes
// bounds write volume to genuine trade events.
package dedup

import "tick-recorder/internal/model"

// Filter tracks the last forwarded (LTP, LTQ) pair for one recording
// session. Not safe for concurrent use; each session owns its own.
type Filter struct {
	lastLTP float64
	lastLTQ int64
	seen    bool
}

// New returns an empty filter: the first tick with LTQ > 0 passes.
func New() *Filter {
	return &Filter{}
}

// Keep reports whether the tick should be persisted and, if so,
// records it as the new last-written state. Zero-quantity ticks and
// exact repeats of the previous pair are suppressed.
func (f *Filter) Keep(t model.Tick) bool {
	if t.LTQ <= 0 {
		return false
	}
	if f.seen && t.LTP == f.lastLTP && t.LTQ == f.lastLTQ {
		return false
	}

	f.lastLTP = t.LTP
	f.lastLTQ = t.LTQ
	f.seen = true
	return true
}
