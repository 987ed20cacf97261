package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("path = %s, want /quote", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %s, want AAPL", got)
		}
		if got := r.Header.Get("X-Finnhub-Token"); got != "test-key" {
			t.Errorf("token header = %s, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"c":227.52,"d":2.1,"dp":0.93,"h":229.0,"l":225.4,"o":226.0,"pc":225.42,"t":1756600200}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", 5*time.Second)

	q, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote() unexpected error: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("Symbol = %s, want AAPL", q.Symbol)
	}
	if q.LastPrice != 227.52 {
		t.Errorf("LastPrice = %v, want 227.52", q.LastPrice)
	}
	if q.PercentChange != 0.93 {
		t.Errorf("PercentChange = %v, want 0.93", q.PercentChange)
	}
	if q.Timestamp.Unix() != 1756600200 {
		t.Errorf("Timestamp = %v, want unix 1756600200", q.Timestamp)
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Finnhub answers unknown symbols with 200 and an all-zeros body.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", 5*time.Second)

	_, err := client.Quote(context.Background(), "NOPE")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Quote() error = %v, want ErrNotFound", err)
	}
}

func TestQuoteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", 5*time.Second)

	_, err := client.Quote(context.Background(), "AAPL")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("Quote() error = %v, want ErrRateLimited", err)
	}
}

func TestQuoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", 5*time.Second)

	if _, err := client.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatal("Quote() expected error on 500, got nil")
	}
}

func TestSearchSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":1,"result":[{"symbol":"AAPL","description":"APPLE INC","type":"Common Stock"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", 5*time.Second)

	matches, err := client.SearchSymbols(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SearchSymbols() unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Symbol != "AAPL" || matches[0].Description != "APPLE INC" {
		t.Errorf("match = %+v", matches[0])
	}
}
