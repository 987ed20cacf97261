package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
)

var (
	// ErrInvalidGroupName is returned when a group name is empty or too long
	// after trimming.
	ErrInvalidGroupName = errors.New("group name must be 1-120 characters")

	// ErrMissingInviteCode is returned when a join request carries a blank
	// invite code. It is a validation failure, distinct from an unknown code.
	ErrMissingInviteCode = errors.New("invite code is required")
)

// createAttempts bounds the create-group retry loop for the rare case where
// a generated invite code races another create between the existence probe
// and the insert.
const createAttempts = 3

// GroupService implements group lifecycle: create, join, leave, and position
// updates. Every mutation publishes an event to the bus for the WebSocket hub
// and the notifier.
type GroupService struct {
	groups  domain.GroupStore
	members domain.MemberStore
	bus     domain.EventBus
	logger  *slog.Logger
}

// NewGroupService creates a GroupService with all required dependencies.
func NewGroupService(
	groupStore domain.GroupStore,
	members domain.MemberStore,
	bus domain.EventBus,
	logger *slog.Logger,
) *GroupService {
	return &GroupService{
		groups:  groupStore,
		members: members,
		bus:     bus,
		logger:  logger,
	}
}

// CreateGroup creates a new group with the caller as its first member. The
// caller's starting positions are validated up front so a bad portfolio never
// leaves a half-created group behind.
func (s *GroupService) CreateGroup(ctx context.Context, who domain.Identity, name string, positions []groups.PositionInput) (domain.Group, domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > domain.MaxGroupNameLen {
		return domain.Group{}, domain.Member{}, ErrInvalidGroupName
	}

	validated, err := groups.ValidatePositions(positions)
	if err != nil {
		return domain.Group{}, domain.Member{}, err
	}

	// Cheap early check; the unique index on user_id remains the authority.
	if _, err := s.members.GetByUserID(ctx, who.UserID); err == nil {
		return domain.Group{}, domain.Member{}, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrNotAMember) {
		return domain.Group{}, domain.Member{}, fmt.Errorf("group_service: check membership: %w", err)
	}

	var group domain.Group
	for attempt := 0; ; attempt++ {
		code, err := groups.GenerateInviteCode(ctx, s.groups.InviteCodeExists)
		if err != nil {
			return domain.Group{}, domain.Member{}, err
		}

		group = domain.Group{
			ID:         uuid.New().String(),
			Name:       name,
			InviteCode: code,
			CreatorID:  who.UserID,
			CreatedAt:  time.Now().UTC(),
		}

		err = s.groups.Create(ctx, group)
		if err == nil {
			break
		}
		// A concurrent create can claim the code between the probe and the
		// insert; regenerate and try again.
		if errors.Is(err, domain.ErrAlreadyExists) && attempt < createAttempts-1 {
			continue
		}
		return domain.Group{}, domain.Member{}, fmt.Errorf("group_service: create group: %w", err)
	}

	member, err := s.addMember(ctx, group.ID, who, validated)
	if err != nil {
		// The caller joined another group between the check and the insert.
		// Remove the now-empty group so no orphan row is left behind.
		if delErr := s.groups.Delete(ctx, group.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "orphan group cleanup failed",
				slog.String("group_id", group.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return domain.Group{}, domain.Member{}, err
	}

	s.logger.InfoContext(ctx, "group created",
		slog.String("group_id", group.ID),
		slog.String("creator_id", who.UserID),
	)
	publishEvent(ctx, s.bus, s.logger, GroupEvent{
		Type:      EventGroupCreated,
		GroupID:   group.ID,
		GroupName: group.Name,
		UserID:    who.UserID,
		Username:  who.DisplayName,
		At:        time.Now().UTC(),
	})

	return group, member, nil
}

// JoinGroup adds the caller to the group holding the given invite code.
func (s *GroupService) JoinGroup(ctx context.Context, who domain.Identity, inviteCode string, positions []groups.PositionInput) (domain.Group, domain.Member, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return domain.Group{}, domain.Member{}, ErrMissingInviteCode
	}

	group, err := s.groups.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return domain.Group{}, domain.Member{}, domain.ErrGroupNotFound
		}
		return domain.Group{}, domain.Member{}, fmt.Errorf("group_service: lookup invite code: %w", err)
	}

	validated, err := groups.ValidatePositions(positions)
	if err != nil {
		return domain.Group{}, domain.Member{}, err
	}

	member, err := s.addMember(ctx, group.ID, who, validated)
	if err != nil {
		return domain.Group{}, domain.Member{}, err
	}

	s.logger.InfoContext(ctx, "member joined",
		slog.String("group_id", group.ID),
		slog.String("user_id", who.UserID),
	)
	publishEvent(ctx, s.bus, s.logger, GroupEvent{
		Type:      EventMemberJoined,
		GroupID:   group.ID,
		GroupName: group.Name,
		UserID:    who.UserID,
		Username:  who.DisplayName,
		At:        time.Now().UTC(),
	})

	return group, member, nil
}

// addMember inserts a membership row; the unique index on user_id turns any
// double-join race into domain.ErrAlreadyMember.
func (s *GroupService) addMember(ctx context.Context, groupID string, who domain.Identity, positions []domain.Position) (domain.Member, error) {
	member := domain.Member{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		UserID:    who.UserID,
		Username:  who.DisplayName,
		Positions: positions,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return domain.Member{}, domain.ErrAlreadyMember
		}
		return domain.Member{}, fmt.Errorf("group_service: add member: %w", err)
	}
	return member, nil
}

// LeaveGroup removes the caller from the given group.
func (s *GroupService) LeaveGroup(ctx context.Context, who domain.Identity, groupID string) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}

	if err := s.members.Delete(ctx, groupID, who.UserID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member left",
		slog.String("group_id", groupID),
		slog.String("user_id", who.UserID),
	)
	publishEvent(ctx, s.bus, s.logger, GroupEvent{
		Type:     EventMemberLeft,
		GroupID:  groupID,
		UserID:   who.UserID,
		Username: who.DisplayName,
		At:       time.Now().UTC(),
	})

	return nil
}

// MyGroup returns the caller's group and membership, or ErrNotAMember.
func (s *GroupService) MyGroup(ctx context.Context, who domain.Identity) (domain.Group, domain.Member, error) {
	member, err := s.members.GetByUserID(ctx, who.UserID)
	if err != nil {
		return domain.Group{}, domain.Member{}, err
	}

	group, err := s.groups.GetByID(ctx, member.GroupID)
	if err != nil {
		return domain.Group{}, domain.Member{}, fmt.Errorf("group_service: get group %s: %w", member.GroupID, err)
	}

	return group, member, nil
}

// ListMembers returns a group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	members, err := s.members.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group_service: list members: %w", err)
	}
	return members, nil
}

// UpdatePositions replaces the caller's portfolio wholesale after validation.
// Unlike the join flows, a replacement must not carry the same symbol twice.
func (s *GroupService) UpdatePositions(ctx context.Context, who domain.Identity, positions []groups.PositionInput) (domain.Member, error) {
	validated, err := groups.ValidatePositions(positions)
	if err != nil {
		return domain.Member{}, err
	}
	if err := groups.RequireUniqueSymbols(validated); err != nil {
		return domain.Member{}, err
	}

	member, err := s.members.GetByUserID(ctx, who.UserID)
	if err != nil {
		return domain.Member{}, err
	}

	if err := s.members.ReplacePositions(ctx, member.ID, validated); err != nil {
		return domain.Member{}, fmt.Errorf("group_service: replace positions: %w", err)
	}

	member.Positions = validated
	publishEvent(ctx, s.bus, s.logger, GroupEvent{
		Type:     EventPositionsUpdated,
		GroupID:  member.GroupID,
		UserID:   who.UserID,
		Username: who.DisplayName,
		At:       time.Now().UTC(),
	})
	return member, nil
}
