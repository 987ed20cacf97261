package domain

import (
	"context"
	"time"
)

// Quote is the latest market snapshot for one symbol as reported by the
// market-data provider. PercentChange is the daily percent change (5.0 means
// +5%). Market data is treated as a trusted external oracle; a quote may be
// absent entirely for symbols the provider does not know.
type Quote struct {
	Symbol        string    `json:"symbol"`
	LastPrice     float64   `json:"lastPrice"`
	PercentChange float64   `json:"percentChange"`
	Timestamp     time.Time `json:"timestamp"`
}

// QuoteProvider fetches a live quote for a single symbol from the upstream
// market-data API. It returns ErrNotFound for symbols the provider does not
// recognise.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// QuoteCache stores recent quotes keyed by symbol so leaderboard builds can
// batch-read a snapshot without one upstream round trip per symbol.
type QuoteCache interface {
	// SetQuote stores the quote under its symbol.
	SetQuote(ctx context.Context, q Quote) error
	// GetQuotes returns cached quotes for the given symbols. Symbols with no
	// cached entry are silently omitted from the result map.
	GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}
