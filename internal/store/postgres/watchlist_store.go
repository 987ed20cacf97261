package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// WatchlistStore implements domain.WatchlistStore using PostgreSQL.
type WatchlistStore struct {
	pool *pgxpool.Pool
}

// NewWatchlistStore creates a new WatchlistStore backed by the given connection pool.
func NewWatchlistStore(pool *pgxpool.Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

var _ domain.WatchlistStore = (*WatchlistStore)(nil)

// Add inserts a watchlist entry. Re-adding an existing symbol refreshes the
// company name instead of failing.
func (s *WatchlistStore) Add(ctx context.Context, item domain.WatchlistItem) error {
	const query = `
		INSERT INTO watchlists (user_id, symbol, company, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, symbol) DO UPDATE SET company = EXCLUDED.company`

	_, err := s.pool.Exec(ctx, query, item.UserID, item.Symbol, item.Company, item.AddedAt)
	if err != nil {
		return fmt.Errorf("postgres: add watchlist item %s: %w", item.Symbol, err)
	}
	return nil
}

// Remove deletes a watchlist entry.
func (s *WatchlistStore) Remove(ctx context.Context, userID, symbol string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM watchlists WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	if err != nil {
		return fmt.Errorf("postgres: remove watchlist item %s: %w", symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns a user's watchlist in insertion order.
func (s *WatchlistStore) List(ctx context.Context, userID string) ([]domain.WatchlistItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, symbol, company, added_at FROM watchlists
		 WHERE user_id = $1
		 ORDER BY added_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list watchlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WatchlistItem
	for rows.Next() {
		var it domain.WatchlistItem
		if err := rows.Scan(&it.UserID, &it.Symbol, &it.Company, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan watchlist item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
