package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// Authenticator defines the account operations the auth handler requires.
type Authenticator interface {
	Register(ctx context.Context, email, displayName, password string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user domain.User) (string, error)
}

// AuthHandler serves registration and login endpoints.
type AuthHandler struct {
	accounts Authenticator
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler with the given dependencies.
func NewAuthHandler(accounts Authenticator, tokens TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register creates a new account and returns a session token.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	h.issueSession(w, r, user, http.StatusCreated)
}

// Login authenticates an existing account and returns a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user domain.User, status int) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, User: user})
}
