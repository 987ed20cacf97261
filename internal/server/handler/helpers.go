package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lironhefcode/stock-market/internal/auth"
	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
	"github.com/lironhefcode/stock-market/internal/server/middleware"
	"github.com/lironhefcode/stock-market/internal/service"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v, rejecting unknown fields so typos
// in client payloads fail loudly instead of silently validating.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeDomainError maps well-known domain and validation errors to HTTP
// status codes with the error's own message; anything unrecognised is logged
// and reported as an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var invalidAmount *groups.InvalidAmountError
	var duplicateSymbol *groups.DuplicateSymbolError

	switch {
	case errors.Is(err, groups.ErrEmptyPositions),
		errors.Is(err, groups.ErrMissingSymbol),
		errors.Is(err, service.ErrInvalidGroupName),
		errors.Is(err, service.ErrMissingInviteCode),
		errors.Is(err, auth.ErrWeakPassword),
		errors.As(err, &invalidAmount),
		errors.As(err, &duplicateSymbol):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrNotAMember),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		logger.ErrorContext(r.Context(), "handler: request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// identity extracts the authenticated caller, answering 401 when the auth
// middleware did not run for this route.
func identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return domain.Identity{}, false
	}
	return id, true
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}
