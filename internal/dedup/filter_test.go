package dedup

import (
	"testing"

	"tick-recorder/internal/model"
)

func tick(ltp float64, ltq int64) model.Tick {
	return model.Tick{Symbol: "TCS.NSE", LTP: ltp, LTQ: ltq}
}

func TestKeep_SuppressesRepeats(t *testing.T) {
	f := New()

	if !f.Keep(tick(100.5, 10)) {
		t.Error("first tick should pass")
	}
	if f.Keep(tick(100.5, 10)) {
		t.Error("identical repeat should be suppressed")
	}
	if !f.Keep(tick(100.5, 5)) {
		t.Error("quantity change should pass")
	}
	if !f.Keep(tick(101.0, 5)) {
		t.Error("price change should pass")
	}
}

func TestKeep_ZeroQuantity(t *testing.T) {
	f := New()

	if f.Keep(tick(100.0, 0)) {
		t.Error("zero-quantity tick should be suppressed")
	}
	if f.Keep(tick(100.0, -1)) {
		t.Error("negative-quantity tick should be suppressed")
	}

	// Zero-quantity ticks must not update dedup state either.
	if !f.Keep(tick(100.0, 10)) {
		t.Error("first real trade should pass after zero-quantity pushes")
	}
}

func TestKeep_CountsChangesOnly(t *testing.T) {
	// The number of kept ticks equals the number of (LTP, LTQ) changes
	// among ticks with LTQ > 0.
	seq := []struct {
		ltp float64
		ltq int64
	}{
		{100, 10}, {100, 10}, {100, 10}, // 1 change
		{100, 0},             // ignored
		{101, 10}, {101, 10}, // 1 change
		{101, 5}, // 1 change
		{101, 5},
		{100, 10}, // 1 change (reverting is still a change)
	}

	f := New()
	kept := 0
	for _, s := range seq {
		if f.Keep(tick(s.ltp, s.ltq)) {
			kept++
		}
	}

	if kept != 4 {
		t.Errorf("kept %d ticks, want 4", kept)
	}
}
