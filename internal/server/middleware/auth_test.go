package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lironhefcode/stock-market/internal/auth"
	"github.com/lironhefcode/stock-market/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestToken(t *testing.T, tokens *auth.JWTManager) string {
	t.Helper()
	token, err := tokens.Generate(domain.User{ID: "u1", DisplayName: "alice"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return token
}

func TestAuthPublicPathBypasses(t *testing.T) {
	tokens := auth.NewJWTManager(testSecret, time.Hour)
	h := Auth(tokens, []string{"/api/health"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMissingToken(t *testing.T) {
	tokens := auth.NewJWTManager(testSecret, time.Hour)
	h := Auth(tokens, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/groups/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthBearerToken(t *testing.T) {
	tokens := auth.NewJWTManager(testSecret, time.Hour)
	var got domain.Identity
	h := Auth(tokens, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		got = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/groups/me", nil)
	req.Header.Set("Authorization", "Bearer "+newTestToken(t, tokens))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.UserID != "u1" || got.DisplayName != "alice" {
		t.Fatalf("identity = %+v, want u1/alice", got)
	}
}

func TestAuthQueryParamToken(t *testing.T) {
	tokens := auth.NewJWTManager(testSecret, time.Hour)
	h := Auth(tokens, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			t.Fatal("identity missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+newTestToken(t, tokens), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	tokens := auth.NewJWTManager(testSecret, time.Hour)
	h := Auth(tokens, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/groups/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
