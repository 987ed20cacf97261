package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// WatchlistService defines the watchlist operations the handler requires.
type WatchlistService interface {
	Add(ctx context.Context, userID, symbol, company string) (domain.WatchlistItem, error)
	Remove(ctx context.Context, userID, symbol string) error
	List(ctx context.Context, userID string) ([]domain.WatchlistItem, error)
}

// WatchlistHandler serves per-user watchlist endpoints.
type WatchlistHandler struct {
	watchlist WatchlistService
	logger    *slog.Logger
}

// NewWatchlistHandler creates a WatchlistHandler with the given service and logger.
func NewWatchlistHandler(watchlist WatchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

type addWatchlistRequest struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
}

// List returns the caller's watchlist.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	items, err := h.watchlist.List(r.Context(), who.UserID)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []domain.WatchlistItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"watchlist": items})
}

// Add puts a symbol on the caller's watchlist.
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req addWatchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.watchlist.Add(r.Context(), who.UserID, req.Symbol, req.Company)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Remove drops a symbol from the caller's watchlist.
// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.watchlist.Remove(r.Context(), who.UserID, pathParam(r, "symbol")); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
