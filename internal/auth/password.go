package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lironhefcode/stock-market/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

const minPasswordLen = 8

// PasswordAuthenticator implements password-based authentication using bcrypt
// on top of a domain.UserStore.
type PasswordAuthenticator struct {
	users domain.UserStore
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users domain.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// Register creates a new user account with a hashed password. Email
// uniqueness is ultimately enforced by the store's unique index; the
// ErrAlreadyExists translation here keeps concurrent duplicate registrations
// returning the same error as sequential ones.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || displayName == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return domain.User{}, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.User{}, ErrEmailExists
		}
		return domain.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Lookup failures and bad passwords collapse into the same error so the
// response does not reveal which emails are registered.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}
