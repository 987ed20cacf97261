package domain

import "time"

// MaxGroupNameLen is the maximum allowed length of a group name after
// trimming.
const MaxGroupNameLen = 120

// Position is a declared stake in a single symbol: the dollar amount the
// member reports having invested. The system never knows actual share counts;
// amounts are stored rounded to 2 decimal places.
type Position struct {
	Symbol         string  `json:"symbol"`
	AmountInvested float64 `json:"amountInvested"`
}

// Group is a named collection of members competing on daily portfolio
// performance, identified by a globally unique 8-character invite code.
// Groups are immutable after creation and persist even when emptied.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatorID  string    `json:"creatorId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Member is a user's membership record within one group. Username is a
// display snapshot taken at join time and is not kept in sync with later
// identity changes. A user belongs to at most one group system-wide.
type Member struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"groupId"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Positions []Position `json:"positions"`
	JoinedAt  time.Time  `json:"joinedAt"`
}

// LeaderboardRow is the derived, never-persisted ranking entry for one
// member. Rank is the 1-based position after a stable descending sort by
// TodayGain.
type LeaderboardRow struct {
	MemberID      string     `json:"id"`
	UserID        string     `json:"userId"`
	Username      string     `json:"username"`
	Positions     []Position `json:"positions"`
	TotalInvested float64    `json:"totalInvested"`
	TodayGain     float64    `json:"todayGain"`
	Rank          int        `json:"rank"`
	JoinedAt      time.Time  `json:"joinedAt"`
}

// Leaderboard is a live view over a group's members, recomputed on every
// request from a single snapshot of membership and market data.
type Leaderboard struct {
	Group       Group            `json:"group"`
	Rows        []LeaderboardRow `json:"rows"`
	GeneratedAt time.Time        `json:"generatedAt"`
}
