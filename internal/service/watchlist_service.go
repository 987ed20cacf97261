package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
	"github.com/lironhefcode/stock-market/internal/platform/finnhub"
)

// SymbolSearcher is the slice of the market-data client the watchlist needs
// for resolving company names.
type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, query string) ([]finnhub.SymbolMatch, error)
}

// WatchlistService manages per-user symbol watchlists.
type WatchlistService struct {
	store  domain.WatchlistStore
	search SymbolSearcher
	logger *slog.Logger
}

// NewWatchlistService creates a WatchlistService. search may be nil, in which
// case company names are left empty.
func NewWatchlistService(store domain.WatchlistStore, search SymbolSearcher, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{
		store:  store,
		search: search,
		logger: logger,
	}
}

// Add puts a symbol on the caller's watchlist. When the caller does not
// supply a company name, it is resolved from the market-data API on a
// best-effort basis.
func (s *WatchlistService) Add(ctx context.Context, userID, symbol, company string) (domain.WatchlistItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.WatchlistItem{}, groups.ErrMissingSymbol
	}

	item := domain.WatchlistItem{
		UserID:  userID,
		Symbol:  symbol,
		Company: strings.TrimSpace(company),
		AddedAt: time.Now().UTC(),
	}

	if item.Company == "" && s.search != nil {
		if company, err := s.lookupCompany(ctx, symbol); err != nil {
			s.logger.WarnContext(ctx, "company lookup failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
		} else {
			item.Company = company
		}
	}

	if err := s.store.Add(ctx, item); err != nil {
		return domain.WatchlistItem{}, fmt.Errorf("watchlist: add %s: %w", symbol, err)
	}
	return item, nil
}

// Remove drops a symbol from the caller's watchlist.
func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.store.Remove(ctx, userID, symbol)
}

// List returns the caller's watchlist.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]domain.WatchlistItem, error) {
	items, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watchlist: list: %w", err)
	}
	return items, nil
}

// lookupCompany returns the description of the exact symbol match, if any.
func (s *WatchlistService) lookupCompany(ctx context.Context, symbol string) (string, error) {
	matches, err := s.search.SearchSymbols(ctx, symbol)
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if strings.EqualFold(m.Symbol, symbol) {
			return m.Description, nil
		}
	}
	return "", errors.New("no exact match")
}
