package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// digestLockKey guards the digest run so only one replica builds and sends a
// given cycle.
const (
	digestLockKey = "digest:daily"
	digestLockTTL = 10 * time.Minute
)

// LeaderboardBuilder is the slice of LeaderboardService the digest needs.
type LeaderboardBuilder interface {
	BuildLeaderboard(ctx context.Context, groupID string) (domain.Leaderboard, error)
}

// DigestNotifier delivers digest messages to the configured channels.
type DigestNotifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// DigestService builds every group's leaderboard on a schedule, sends a
// summary to the notification channels, and archives a JSON snapshot to blob
// storage.
type DigestService struct {
	groups      domain.GroupStore
	leaderboard LeaderboardBuilder
	notifier    DigestNotifier
	archiver    domain.SnapshotArchiver
	locks       domain.LockManager
	logger      *slog.Logger
}

// NewDigestService creates a DigestService. notifier, archiver and locks are
// each optional; a nil archiver skips snapshots and a nil lock manager skips
// the single-runner guard.
func NewDigestService(
	groupStore domain.GroupStore,
	leaderboard LeaderboardBuilder,
	notifier DigestNotifier,
	archiver domain.SnapshotArchiver,
	locks domain.LockManager,
	logger *slog.Logger,
) *DigestService {
	return &DigestService{
		groups:      groupStore,
		leaderboard: leaderboard,
		notifier:    notifier,
		archiver:    archiver,
		locks:       locks,
		logger:      logger,
	}
}

// Run executes one digest cycle over all groups. Per-group failures are
// logged and skipped so one broken group cannot block the rest; the combined
// error reports how many groups failed.
func (s *DigestService) Run(ctx context.Context) error {
	if s.locks != nil {
		unlock, err := s.locks.Acquire(ctx, digestLockKey, digestLockTTL)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				s.logger.InfoContext(ctx, "digest already running elsewhere, skipping")
				return nil
			}
			return fmt.Errorf("digest: acquire lock: %w", err)
		}
		defer unlock()
	}

	allGroups, err := s.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("digest: list groups: %w", err)
	}

	var failed int
	for _, g := range allGroups {
		if err := s.digestGroup(ctx, g); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "group digest failed",
				slog.String("group_id", g.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "digest cycle complete",
		slog.Int("groups", len(allGroups)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("digest: %d of %d groups failed", failed, len(allGroups))
	}
	return nil
}

func (s *DigestService) digestGroup(ctx context.Context, g domain.Group) error {
	lb, err := s.leaderboard.BuildLeaderboard(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("build leaderboard: %w", err)
	}

	if s.notifier != nil {
		title := fmt.Sprintf("Daily digest: %s", g.Name)
		if err := s.notifier.Notify(ctx, EventDigest, title, formatDigest(lb)); err != nil {
			s.logger.WarnContext(ctx, "digest notify failed",
				slog.String("group_id", g.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.archiver != nil {
		path, err := s.archiver.ArchiveLeaderboard(ctx, lb)
		if err != nil {
			return fmt.Errorf("archive snapshot: %w", err)
		}
		s.logger.DebugContext(ctx, "snapshot archived",
			slog.String("group_id", g.ID),
			slog.String("path", path),
		)
	}

	return nil
}

// formatDigest renders a compact ranking suitable for chat channels.
func formatDigest(lb domain.Leaderboard) string {
	if len(lb.Rows) == 0 {
		return "No members yet."
	}
	var b strings.Builder
	for _, row := range lb.Rows {
		fmt.Fprintf(&b, "%d. %s  %+.2f%%\n", row.Rank, row.Username, row.TodayGain)
	}
	return strings.TrimRight(b.String(), "\n")
}
