package model

import (
	"fmt"
	"time"
)

// Instrument is the canonical identity of a tradable security as
// returned by the instrument search API. Immutable once resolved.
type Instrument struct {
	Symbol        string // e.g. "RELIANCE"
	Exchange      string // e.g. "NSE"
	ExchangeCode  int    // provider numeric segment code
	Token         int64  // provider instrument token
	TradingSymbol string // e.g. "RELIANCE-EQ"
	Company       string // display name
	Multiplier    int    // price scaling factor for this segment
}

// Ticker returns the user-facing "SYMBOL.EXCHANGE" form.
func (i Instrument) Ticker() string {
	return i.Symbol + "." + i.Exchange
}

// SubscriptionKey identifies one live subscription channel on the
// shared connection. At most one subscription exists per key.
type SubscriptionKey string

// Key derives the subscription key for an (exchange code, token) pair.
func Key(exchangeCode int, token int64) SubscriptionKey {
	return SubscriptionKey(fmt.Sprintf("%d_%d", token, exchangeCode))
}

// Key returns the instrument's subscription key.
func (i Instrument) Key() SubscriptionKey {
	return Key(i.ExchangeCode, i.Token)
}

// RawTick is a market data push as delivered by the provider.
// Price and quantity are pointers because the provider sends partial
// frames (depth-only updates) that omit them.
type RawTick struct {
	ExchangeCode       int      `json:"exchange_code"`
	Token              int64    `json:"instrument_token"`
	LastTradedPrice    *float64 `json:"last_traded_price,omitempty"`
	LastTradedQuantity *int64   `json:"last_traded_quantity,omitempty"`
}

// Key returns the subscription key the tick belongs to.
func (r RawTick) Key() SubscriptionKey {
	return Key(r.ExchangeCode, r.Token)
}

// Tick is the canonical, normalized tick record. This is the unit of
// persistence: LTP is already divided by the exchange multiplier.
type Tick struct {
	Symbol    string    // e.g. "RELIANCE.NSE"
	Timestamp time.Time // wall clock at normalization time
	LTP       float64   // last traded price in decimal currency
	LTQ       int64     // last traded quantity
}

// Date formats the tick date as DD-MM-YYYY.
func (t Tick) Date() string {
	return t.Timestamp.Format("02-01-2006")
}

// Clock formats the tick time as HH:MM:SS.
func (t Tick) Clock() string {
	return t.Timestamp.Format("15:04:05")
}
