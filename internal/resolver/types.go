package resolver

import (
	"errors"
	"fmt"
)

// Resolution failure reasons. Start requests surface these verbatim to
// the caller; the core never retries a failed resolution.
var (
	ErrInvalidFormat       = errors.New("ticker must be in format SYMBOL.EXCHANGE (e.g. RELIANCE.NSE)")
	ErrUnsupportedExchange = errors.New("unsupported exchange")
	ErrNotFound            = errors.New("no matching instrument found")
	ErrUnauthorized        = errors.New("unauthorized: token may be invalid or expired")
	ErrForbidden           = errors.New("forbidden: token valid but lacks access")
)

// APIError represents an unexpected response from the provider API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider api error %d: %s", e.StatusCode, e.Body)
}

// searchResponse from GET /api/v1/search
type searchResponse struct {
	Result []searchResult `json:"result"`
}

// searchResult is one instrument entry from the search API.
type searchResult struct {
	Symbol        string `json:"symbol"`
	Exchange      string `json:"exchange"`
	Token         int64  `json:"token"`
	TradingSymbol string `json:"trading_symbol"`
	Company       string `json:"company"`
}

// Profile is the provider account profile, returned by token validation.
type Profile struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
