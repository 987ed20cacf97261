package groups

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// inviteCodeLen is the length of a rendered invite code (8 hex chars from 4
// random bytes, ~4.3e9 possible codes).
const inviteCodeLen = 8

// maxInviteAttempts bounds the collision-retry loop. With a near-empty code
// space exhaustion is effectively impossible; the bound protects against
// adversarial or corrupted state rather than honest collisions.
const maxInviteAttempts = 10

// ErrInviteCodeExhausted is returned when every generation attempt collided
// with an existing code.
var ErrInviteCodeExhausted = errors.New("unable to generate unique invite code")

// ExistsFunc probes the persistent store for an invite code. It must be
// backed by the same store the eventual insert targets; the store's unique
// index stays authoritative for the check-then-insert race.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// GenerateInviteCode produces an 8-character uppercase hexadecimal invite
// code that the exists probe did not know, retrying up to 10 times before
// giving up with ErrInviteCodeExhausted.
func GenerateInviteCode(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxInviteAttempts; attempt++ {
		var buf [inviteCodeLen / 2]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("groups: read random bytes: %w", err)
		}
		code := strings.ToUpper(hex.EncodeToString(buf[:]))

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("groups: check invite code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrInviteCodeExhausted
}
