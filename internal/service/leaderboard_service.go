package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
)

// QuoteBatcher is the slice of QuoteService the leaderboard needs.
type QuoteBatcher interface {
	BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error)
}

// LeaderboardService builds a group's daily-gain ranking.
type LeaderboardService struct {
	groups  domain.GroupStore
	members domain.MemberStore
	quotes  QuoteBatcher
	logger  *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService with all required
// dependencies.
func NewLeaderboardService(
	groupStore domain.GroupStore,
	members domain.MemberStore,
	quotes QuoteBatcher,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		groups:  groupStore,
		members: members,
		quotes:  quotes,
		logger:  logger,
	}
}

// BuildLeaderboard computes the ranked leaderboard for a group. All members'
// symbols are collected into one deduplicated batch so the market-data
// lookup cost scales with distinct symbols, not with members.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, groupID string) (domain.Leaderboard, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	members, err := s.members.ListByGroup(ctx, groupID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard: list members: %w", err)
	}

	var symbols []string
	for _, m := range members {
		for _, p := range m.Positions {
			symbols = append(symbols, p.Symbol)
		}
	}

	quotes, err := s.quotes.BatchQuotes(ctx, symbols)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard: batch quotes: %w", err)
	}

	changes := make(map[string]float64, len(quotes))
	for sym, q := range quotes {
		changes[sym] = q.PercentChange
	}

	rows := make([]domain.LeaderboardRow, 0, len(members))
	for _, m := range members {
		total := groups.TotalInvested(m.Positions)
		gain := groups.ComputeTodayGain(m.Positions, total, changes)
		rows = append(rows, domain.LeaderboardRow{
			MemberID:      m.ID,
			UserID:        m.UserID,
			Username:      m.Username,
			Positions:     m.Positions,
			TotalInvested: round2(total),
			TodayGain:     gain,
			JoinedAt:      m.JoinedAt,
		})
	}

	// Sort on the raw gain so near-ties that round to the same 2-dp figure
	// still rank correctly. Stable sort keeps join order among true ties.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TodayGain > rows[j].TodayGain
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].TodayGain = round2(rows[i].TodayGain)
	}

	s.logger.DebugContext(ctx, "leaderboard built",
		slog.String("group_id", groupID),
		slog.Int("members", len(rows)),
		slog.Int("symbols", len(changes)),
	)

	return domain.Leaderboard{
		Group:       group,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// round2 rounds half-up to two decimal places, matching how the figures are
// stored and displayed.
func round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
