package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// fakeUserStore is an in-memory domain.UserStore for authenticator tests.
type fakeUserStore struct {
	users map[string]domain.User // keyed by lowercased email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, u domain.User) error {
	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; ok {
		return domain.ErrAlreadyExists
	}
	s.users[key] = u
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())
	ctx := context.Background()

	user, err := a.Register(ctx, "Alice@Example.com", "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %s, want lowercased alice@example.com", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Error("password stored in plaintext")
	}

	got, err := a.Authenticate(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user ID = %s, want %s", got.ID, user.ID)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())

	_, err := a.Register(context.Background(), "a@b.com", "a", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("Register() error = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())
	ctx := context.Background()

	if _, err := a.Register(ctx, "a@b.com", "first", "password123"); err != nil {
		t.Fatalf("first Register() unexpected error: %v", err)
	}
	_, err := a.Register(ctx, "A@B.com", "second", "password123")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("Register() error = %v, want ErrEmailExists", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStore())
	ctx := context.Background()

	if _, err := a.Register(ctx, "a@b.com", "a", "password123"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := a.Authenticate(ctx, "a@b.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate() error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Authenticate(ctx, "missing@b.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate() error = %v, want ErrInvalidCredentials", err)
	}
}
