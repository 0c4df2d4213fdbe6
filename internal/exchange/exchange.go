// Package exchange holds the static exchange code table used by the
// market data provider. Raw prices arrive as scaled integers; the
// multiplier converts them back to decimal currency.
package exchange

// info describes one exchange segment.
type info struct {
	name       string
	multiplier int
}

// Exchange codes as assigned by the provider.
const (
	NSE = 1
	NFO = 2
	CDS = 3
	MCX = 4
	BSE = 6
	BFO = 7
)

var exchanges = map[int]info{
	NSE: {name: "NSE", multiplier: 100},
	NFO: {name: "NFO", multiplier: 100},
	CDS: {name: "CDS", multiplier: 10000000},
	MCX: {name: "MCX", multiplier: 100},
	BSE: {name: "BSE", multiplier: 100},
	BFO: {name: "BFO", multiplier: 100},
}

var nameToCode = func() map[string]int {
	m := make(map[string]int, len(exchanges))
	for code, e := range exchanges {
		m[e.name] = code
	}
	return m
}()

// Name returns the exchange name for a code, or "UNKNOWN".
func Name(code int) string {
	if e, ok := exchanges[code]; ok {
		return e.name
	}
	return "UNKNOWN"
}

// Multiplier returns the price multiplier for a code. Unknown codes
// get a multiplier of 1 so normalization never fails.
func Multiplier(code int) int {
	if e, ok := exchanges[code]; ok {
		return e.multiplier
	}
	return 1
}

// Code maps an exchange name (e.g. "NSE") to its numeric code.
func Code(name string) (int, bool) {
	code, ok := nameToCode[name]
	return code, ok
}
