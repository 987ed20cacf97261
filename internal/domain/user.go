package domain

import "time"

// User is a registered account. Email is unique; PasswordHash is a bcrypt
// hash and never leaves the auth layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller of a request. It is resolved by the
// auth middleware from the session token and passed explicitly into every
// mutating operation; operations never consult ambient session state.
type Identity struct {
	UserID      string
	DisplayName string
}

// WatchlistItem is one symbol on a user's personal watchlist. A user can
// hold each symbol at most once.
type WatchlistItem struct {
	UserID  string    `json:"userId"`
	Symbol  string    `json:"symbol"`
	Company string    `json:"company"`
	AddedAt time.Time `json:"addedAt"`
}
