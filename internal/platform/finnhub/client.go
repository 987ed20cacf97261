// Package finnhub is a REST client for the Finnhub market-data API, covering
// real-time quotes and symbol search.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// Client is the REST client for the Finnhub API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new Finnhub client.
//
// baseURL is the API root, e.g. "https://finnhub.io/api/v1".
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Quote returns the real-time quote for a symbol. Finnhub answers unknown
// symbols with an all-zeros quote body rather than a 404; that shape is
// translated to domain.ErrNotFound.
func (c *Client) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.doGet(ctx, "/quote?"+params.Encode())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: get quote %s: %w", symbol, err)
	}

	var apiQuote APIQuote
	if err := json.Unmarshal(body, &apiQuote); err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: decode quote %s: %w", symbol, err)
	}

	if apiQuote.IsZero() {
		return domain.Quote{}, fmt.Errorf("finnhub: %w: symbol=%s", domain.ErrNotFound, symbol)
	}

	return apiQuote.ToDomainQuote(symbol), nil
}

// SearchSymbols searches for symbols matching the given query string.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)

	body, err := c.doGet(ctx, "/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("finnhub: search symbols: %w", err)
	}

	var result APISearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("finnhub: decode search results: %w", err)
	}

	return result.Result, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends a GET request to the Finnhub API with the token header set.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Finnhub-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus converts non-2xx responses into errors, mapping 429 to the
// rate-limit sentinel so callers can back off.
func checkHTTPStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	const maxErrBody = 256
	if len(body) > maxErrBody {
		body = body[:maxErrBody]
	}
	return fmt.Errorf("unexpected status %d: %s", status, body)
}

// Compile-time interface check.
var _ domain.QuoteProvider = (*Client)(nil)
