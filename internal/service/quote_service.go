package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// QuoteService serves stock quotes, reading through the Redis cache and
// fanning out to the market-data provider only for misses.
type QuoteService struct {
	provider    domain.QuoteProvider
	cache       domain.QuoteCache
	maxInFlight int
	logger      *slog.Logger
}

// NewQuoteService creates a QuoteService. maxInFlight bounds concurrent
// upstream requests during a batch fill.
func NewQuoteService(
	provider domain.QuoteProvider,
	cache domain.QuoteCache,
	maxInFlight int,
	logger *slog.Logger,
) *QuoteService {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &QuoteService{
		provider:    provider,
		cache:       cache,
		maxInFlight: maxInFlight,
		logger:      logger,
	}
}

// GetQuote returns the quote for a single symbol.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	quotes, err := s.BatchQuotes(ctx, []string{symbol})
	if err != nil {
		return domain.Quote{}, err
	}
	q, ok := quotes[symbol]
	if !ok {
		return domain.Quote{}, fmt.Errorf("quote_service: %w: symbol=%s", domain.ErrNotFound, symbol)
	}
	return q, nil
}

// BatchQuotes returns quotes for the given symbols. Symbols are deduplicated
// and normalised; the cache is consulted in one pipelined read and only the
// misses hit the upstream API, with bounded concurrency. Symbols the upstream
// cannot serve are omitted from the result rather than failing the batch.
func (s *QuoteService) BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	unique := dedupeSymbols(symbols)
	if len(unique) == 0 {
		return map[string]domain.Quote{}, nil
	}

	result, err := s.cache.GetQuotes(ctx, unique)
	if err != nil {
		// A dead cache degrades to upstream-only reads.
		s.logger.WarnContext(ctx, "quote cache read failed", slog.String("error", err.Error()))
		result = make(map[string]domain.Quote, len(unique))
	}

	var misses []string
	for _, sym := range unique {
		if _, ok := result[sym]; !ok {
			misses = append(misses, sym)
		}
	}
	if len(misses) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	for _, sym := range misses {
		sym := sym
		g.Go(func() error {
			q, err := s.provider.Quote(gctx, sym)
			if err != nil {
				// Per-symbol degradation: a bad ticker or a flaky upstream
				// must not sink the whole leaderboard.
				s.logger.WarnContext(gctx, "quote fetch failed",
					slog.String("symbol", sym),
					slog.String("error", err.Error()),
				)
				return nil
			}

			if cacheErr := s.cache.SetQuote(gctx, q); cacheErr != nil {
				s.logger.WarnContext(gctx, "quote cache write failed",
					slog.String("symbol", sym),
					slog.String("error", cacheErr.Error()),
				)
			}

			mu.Lock()
			result[sym] = q
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("quote_service: batch quotes: %w", err)
	}

	return result, nil
}

// dedupeSymbols normalises, deduplicates and sorts a symbol list.
func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
