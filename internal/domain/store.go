package domain

import (
	"context"
	"io"
	"time"
)

// GroupStore persists groups. Invite-code uniqueness is enforced by a unique
// index at the storage layer; Create returns ErrAlreadyExists on a collision.
type GroupStore interface {
	Create(ctx context.Context, g Group) error
	GetByID(ctx context.Context, id string) (Group, error)
	GetByInviteCode(ctx context.Context, code string) (Group, error)
	// InviteCodeExists reports whether any group already uses the code. It is
	// an optimisation for code generation; the unique index remains the
	// authority under concurrent creates.
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]Group, error)
	// Delete removes a group row. Memberships cascade at the storage layer.
	Delete(ctx context.Context, id string) error
}

// MemberStore persists group memberships. The one-group-per-user rule is a
// unique index on user_id; Create returns ErrAlreadyMember when the user
// already holds a membership anywhere.
type MemberStore interface {
	Create(ctx context.Context, m Member) error
	GetByUserID(ctx context.Context, userID string) (Member, error)
	ListByGroup(ctx context.Context, groupID string) ([]Member, error)
	// ReplacePositions overwrites a member's positions wholesale.
	ReplacePositions(ctx context.Context, memberID string, positions []Position) error
	// Delete removes the membership of userID in groupID. The group row is
	// left untouched.
	Delete(ctx context.Context, groupID, userID string) error
}

// UserStore persists registered accounts.
type UserStore interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// WatchlistStore persists per-user watchlists.
type WatchlistStore interface {
	Add(ctx context.Context, item WatchlistItem) error
	Remove(ctx context.Context, userID, symbol string) error
	List(ctx context.Context, userID string) ([]WatchlistItem, error)
}

// RateLimiter applies a sliding-window limit per key.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under limit
	// requests per window, counting the request when it is.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventBus publishes and subscribes to ephemeral broadcast channels. It
// carries group lifecycle events to the WebSocket hub and the notifier.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of raw payloads; it is closed when ctx is
	// cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// LockManager provides distributed mutual exclusion. The digest job takes a
// lock so only one replica builds and sends a given day's digest.
type LockManager interface {
	// Acquire obtains the lock for key with the given TTL and returns an
	// unlock function, or ErrLockHeld when another party holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// BlobWriter uploads objects to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// SnapshotArchiver persists point-in-time leaderboard snapshots to durable
// storage.
type SnapshotArchiver interface {
	// ArchiveLeaderboard uploads the leaderboard as JSON, keyed by group and
	// day, and returns the object path.
	ArchiveLeaderboard(ctx context.Context, lb Leaderboard) (string, error)
}
