package exchange

import "testing"

func TestMultiplier(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{NSE, 100},
		{NFO, 100},
		{CDS, 10000000},
		{MCX, 100},
		{BSE, 100},
		{BFO, 100},
		{99, 1}, // unknown code defaults to 1
		{0, 1},
		{-1, 1},
	}

	for _, tt := range tests {
		if got := Multiplier(tt.code); got != tt.want {
			t.Errorf("Multiplier(%d) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{NSE, "NSE"},
		{CDS, "CDS"},
		{BSE, "BSE"},
		{5, "UNKNOWN"},
		{99, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := Name(tt.code); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCode(t *testing.T) {
	code, ok := Code("NSE")
	if !ok || code != NSE {
		t.Errorf("Code(NSE) = %d, %v, want %d, true", code, ok, NSE)
	}

	if _, ok := Code("NYSE"); ok {
		t.Error("Code(NYSE) should not resolve")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, code := range []int{NSE, NFO, CDS, MCX, BSE, BFO} {
		got, ok := Code(Name(code))
		if !ok || got != code {
			t.Errorf("Code(Name(%d)) = %d, %v", code, got, ok)
		}
	}
}
