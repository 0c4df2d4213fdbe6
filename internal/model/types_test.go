package model

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	tests := []struct {
		exchangeCode int
		token        int64
		want         SubscriptionKey
	}{
		{1, 2885, "2885_1"},
		{6, 500325, "500325_6"},
		{3, 1, "1_3"},
	}

	for _, tt := range tests {
		if got := Key(tt.exchangeCode, tt.token); got != tt.want {
			t.Errorf("Key(%d, %d) = %q, want %q", tt.exchangeCode, tt.token, got, tt.want)
		}
	}
}

func TestInstrumentKey(t *testing.T) {
	inst := Instrument{
		Symbol:       "RELIANCE",
		Exchange:     "NSE",
		ExchangeCode: 1,
		Token:        2885,
	}

	if got := inst.Key(); got != SubscriptionKey("2885_1") {
		t.Errorf("Key() = %q, want 2885_1", got)
	}
	if got := inst.Ticker(); got != "RELIANCE.NSE" {
		t.Errorf("Ticker() = %q, want RELIANCE.NSE", got)
	}
}

func TestTickFormatting(t *testing.T) {
	ts := time.Date(2025, 7, 9, 14, 5, 3, 0, time.Local)
	tick := Tick{Symbol: "TCS.NSE", Timestamp: ts, LTP: 3501.25, LTQ: 10}

	if got := tick.Date(); got != "09-07-2025" {
		t.Errorf("Date() = %q, want 09-07-2025", got)
	}
	if got := tick.Clock(); got != "14:05:03" {
		t.Errorf("Clock() = %q, want 14:05:03", got)
	}
}
