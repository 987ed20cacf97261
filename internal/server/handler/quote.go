package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// QuoteService defines the quote lookups the handler requires.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (domain.Quote, error)
	BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error)
}

// QuoteHandler serves market-data HTTP endpoints.
type QuoteHandler struct {
	quotes QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler with the given service and logger.
func NewQuoteHandler(quotes QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

// GetQuote returns the quote for one symbol.
// GET /api/quotes/{symbol}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotes.GetQuote(r.Context(), pathParam(r, "symbol"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// BatchQuotes returns quotes for a comma-separated symbol list. Symbols the
// market-data backend cannot serve are omitted from the response.
// GET /api/quotes?symbols=AAPL,MSFT
func (h *QuoteHandler) BatchQuotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, "symbols query parameter required")
		return
	}

	quotes, err := h.quotes.BatchQuotes(r.Context(), strings.Split(raw, ","))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}
