package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// QuoteCache implements domain.QuoteCache using Redis hashes.
// Each symbol's quote is stored as a hash at key "quote:{symbol}" with fields
// "price", "dp" (daily percent change) and "ts" (Unix nanosecond timestamp).
// Entries expire after the configured TTL so a dead upstream cannot serve
// stale quotes forever.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying(), ttl: ttl}
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

// SetQuote stores the latest quote for a symbol and refreshes its TTL.
func (qc *QuoteCache) SetQuote(ctx context.Context, q domain.Quote) error {
	key := quoteKey(q.Symbol)
	fields := map[string]interface{}{
		"price": strconv.FormatFloat(q.LastPrice, 'f', -1, 64),
		"dp":    strconv.FormatFloat(q.PercentChange, 'f', -1, 64),
		"ts":    strconv.FormatInt(q.Timestamp.UnixNano(), 10),
	}

	pipe := qc.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, qc.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", q.Symbol, err)
	}
	return nil
}

// GetQuotes retrieves cached quotes for multiple symbols using a pipeline.
// Symbols whose keys do not exist are silently omitted from the result map;
// the caller decides whether a miss is fatal.
func (qc *QuoteCache) GetQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	if len(symbols) == 0 {
		return map[string]domain.Quote{}, nil
	}

	pipe := qc.rdb.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(symbols))
	for _, sym := range symbols {
		cmds[sym] = pipe.HGetAll(ctx, quoteKey(sym))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: get quotes pipeline: %w", err)
	}

	result := make(map[string]domain.Quote, len(symbols))
	for sym, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		q, ok := parseQuoteHash(sym, vals)
		if !ok {
			continue
		}
		result[sym] = q
	}

	return result, nil
}

func parseQuoteHash(symbol string, vals map[string]string) (domain.Quote, bool) {
	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return domain.Quote{}, false
	}
	dp, err := strconv.ParseFloat(vals["dp"], 64)
	if err != nil {
		return domain.Quote{}, false
	}
	tsNano, err := strconv.ParseInt(vals["ts"], 10, 64)
	if err != nil {
		return domain.Quote{}, false
	}
	return domain.Quote{
		Symbol:        symbol,
		LastPrice:     price,
		PercentChange: dp,
		Timestamp:     time.Unix(0, tsNano),
	}, true
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
