package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
	"github.com/lironhefcode/stock-market/internal/platform/finnhub"
)

type fakeWatchlistStore struct {
	mu    sync.Mutex
	items []domain.WatchlistItem
}

func (s *fakeWatchlistStore) Add(ctx context.Context, item domain.WatchlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.UserID == item.UserID && it.Symbol == item.Symbol {
			s.items[i] = item
			return nil
		}
	}
	s.items = append(s.items, item)
	return nil
}

func (s *fakeWatchlistStore) Remove(ctx context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.UserID == userID && it.Symbol == symbol {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeWatchlistStore) List(ctx context.Context, userID string) ([]domain.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.WatchlistItem
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type fakeSearcher struct{}

func (fakeSearcher) SearchSymbols(ctx context.Context, query string) ([]finnhub.SymbolMatch, error) {
	return []finnhub.SymbolMatch{
		{Symbol: "AAPL", Description: "APPLE INC", Type: "Common Stock"},
		{Symbol: "AAPL.SW", Description: "APPLE INC SWISS", Type: "Common Stock"},
	}, nil
}

func TestWatchlistAdd(t *testing.T) {
	store := &fakeWatchlistStore{}
	svc := NewWatchlistService(store, fakeSearcher{}, testLogger())

	item, err := svc.Add(context.Background(), "u1", " aapl ", "")
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if item.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", item.Symbol)
	}
	if item.Company != "APPLE INC" {
		t.Errorf("company = %q, want exact-match description", item.Company)
	}

	items, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}

func TestWatchlistAddExplicitCompany(t *testing.T) {
	store := &fakeWatchlistStore{}
	svc := NewWatchlistService(store, fakeSearcher{}, testLogger())

	item, err := svc.Add(context.Background(), "u1", "msft", "Microsoft Corp")
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if item.Company != "Microsoft Corp" {
		t.Errorf("company = %q, want the caller-supplied name", item.Company)
	}
}

func TestWatchlistAddBlankSymbol(t *testing.T) {
	svc := NewWatchlistService(&fakeWatchlistStore{}, nil, testLogger())

	if _, err := svc.Add(context.Background(), "u1", "  ", ""); !errors.Is(err, groups.ErrMissingSymbol) {
		t.Fatalf("Add() error = %v, want ErrMissingSymbol", err)
	}
}

func TestWatchlistRemove(t *testing.T) {
	store := &fakeWatchlistStore{}
	svc := NewWatchlistService(store, nil, testLogger())

	if _, err := svc.Add(context.Background(), "u1", "AAPL", ""); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if err := svc.Remove(context.Background(), "u1", "aapl"); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := svc.Remove(context.Background(), "u1", "AAPL"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Remove() error = %v, want ErrNotFound", err)
	}
}
