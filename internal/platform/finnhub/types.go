package finnhub

import (
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// APIQuote is the wire shape of Finnhub's /quote response.
type APIQuote struct {
	Current       float64 `json:"c"`  // current price
	Change        float64 `json:"d"`  // absolute change
	PercentChange float64 `json:"dp"` // percent change
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"` // Unix seconds
}

// IsZero reports whether the quote is Finnhub's "unknown symbol" response, an
// all-zeros body.
func (q APIQuote) IsZero() bool {
	return q.Current == 0 && q.High == 0 && q.Low == 0 &&
		q.Open == 0 && q.PrevClose == 0 && q.Timestamp == 0
}

// ToDomainQuote converts the wire quote into the domain representation.
func (q APIQuote) ToDomainQuote(symbol string) domain.Quote {
	ts := time.Unix(q.Timestamp, 0)
	if q.Timestamp == 0 {
		ts = time.Now()
	}
	return domain.Quote{
		Symbol:        symbol,
		LastPrice:     q.Current,
		PercentChange: q.PercentChange,
		Timestamp:     ts,
	}
}

// SymbolMatch is one hit from Finnhub's /search endpoint.
type SymbolMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// APISearchResult is the wire shape of Finnhub's /search response.
type APISearchResult struct {
	Count  int           `json:"count"`
	Result []SymbolMatch `json:"result"`
}
