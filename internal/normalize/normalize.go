// Package normalize converts raw provider ticks into canonical tick
// records, applying the exchange-specific price multiplier.
package normalize

import (
	"strings"
	"time"

	"tick-recorder/internal/exchange"
	"tick-recorder/internal/model"
)

// Tick normalizes a raw provider tick for the given instrument symbol
// and exchange code. It returns false when the push lacks a price or
// quantity (partial frames such as depth-only updates).
//
// The timestamp is stamped from the wall clock at normalization time;
// the provider does not supply one.
func Tick(raw model.RawTick, symbol string, exchangeCode int) (model.Tick, bool) {
	return TickAt(raw, symbol, exchangeCode, time.Now())
}

// TickAt is Tick with an explicit timestamp.
func TickAt(raw model.RawTick, symbol string, exchangeCode int, at time.Time) (model.Tick, bool) {
	if raw.LastTradedPrice == nil || raw.LastTradedQuantity == nil {
		return model.Tick{}, false
	}

	multiplier := exchange.Multiplier(exchangeCode)

	return model.Tick{
		Symbol:    strings.ToUpper(symbol) + "." + exchange.Name(exchangeCode),
		Timestamp: at,
		LTP:       *raw.LastTradedPrice / float64(multiplier),
		LTQ:       *raw.LastTradedQuantity,
	}, true
}
