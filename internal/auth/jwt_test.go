package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	user := domain.User{ID: "u1", DisplayName: "alice"}
	token, err := mgr.Generate(user)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %s, want u1", claims.UserID)
	}
	if claims.DisplayName != "alice" {
		t.Errorf("DisplayName = %s, want alice", claims.DisplayName)
	}
}

func TestJWTExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := mgr.Generate(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if _, err := mgr.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	mgr := NewJWTManager("secret-one", time.Hour)
	other := NewJWTManager("secret-two", time.Hour)

	token, err := mgr.Generate(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTGarbageToken(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)
	if _, err := mgr.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate() error = %v, want ErrInvalidToken", err)
	}
}
