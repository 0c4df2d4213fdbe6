package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tick-recorder/internal/exchange"
	"tick-recorder/internal/model"
)

// Resolve maps a user-entered "SYMBOL.EXCHANGE" string to an
// instrument identity via the provider search API. Any failure is
// terminal for the caller's start attempt.
func (c *Client) Resolve(ctx context.Context, tickerWithExchange, accessToken string) (model.Instrument, error) {
	symbol, exchName, err := splitTicker(tickerWithExchange)
	if err != nil {
		return model.Instrument{}, err
	}

	exchCode, ok := exchange.Code(exchName)
	if !ok {
		return model.Instrument{}, fmt.Errorf("%w: %s", ErrUnsupportedExchange, exchName)
	}

	results, err := c.search(ctx, symbol, accessToken)
	if err != nil {
		return model.Instrument{}, err
	}

	for _, item := range results {
		if strings.ToUpper(item.Symbol) != symbol || strings.ToUpper(item.Exchange) != exchName {
			continue
		}

		return model.Instrument{
			Symbol:        item.Symbol,
			Exchange:      item.Exchange,
			ExchangeCode:  exchCode,
			Token:         item.Token,
			TradingSymbol: item.TradingSymbol,
			Company:       item.Company,
			Multiplier:    exchange.Multiplier(exchCode),
		}, nil
	}

	return model.Instrument{}, fmt.Errorf("%w for %s (search returned %d results)",
		ErrNotFound, tickerWithExchange, len(results))
}

// splitTicker parses "SYMBOL.EXCHANGE" into its uppercased parts.
func splitTicker(s string) (symbol, exchName string, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	symbol, exchName, found := strings.Cut(s, ".")
	if !found || symbol == "" || exchName == "" {
		return "", "", ErrInvalidFormat
	}
	return symbol, exchName, nil
}

// search queries the instrument search API.
func (c *Client) search(ctx context.Context, symbol, accessToken string) ([]searchResult, error) {
	query := url.Values{}
	query.Set("key", symbol)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/search", query, accessToken)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	return resp.Result, nil
}

// doRequest performs an HTTP request against the provider API.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, accessToken string) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode >= 400:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
