package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
)

var inviteCodeRe = regexp.MustCompile(`^[0-9A-F]{8}$`)

func newGroupService() (*GroupService, *fakeGroupStore, *fakeMemberStore, *fakeBus) {
	gs := newFakeGroupStore()
	ms := newFakeMemberStore()
	bus := &fakeBus{}
	return NewGroupService(gs, ms, bus, testLogger()), gs, ms, bus
}

func alice() domain.Identity { return domain.Identity{UserID: "u-alice", DisplayName: "alice"} }
func bob() domain.Identity   { return domain.Identity{UserID: "u-bob", DisplayName: "bob"} }

func somePositions() []groups.PositionInput {
	return []groups.PositionInput{{Symbol: "AAPL", AmountInvested: 100}}
}

func TestCreateGroup(t *testing.T) {
	svc, _, _, bus := newGroupService()
	ctx := context.Background()

	group, member, err := svc.CreateGroup(ctx, alice(), "  The Bulls  ", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}
	if group.Name != "The Bulls" {
		t.Errorf("name = %q, want trimmed %q", group.Name, "The Bulls")
	}
	if !inviteCodeRe.MatchString(group.InviteCode) {
		t.Errorf("invite code = %q, want 8 uppercase hex chars", group.InviteCode)
	}
	if member.GroupID != group.ID || member.UserID != "u-alice" {
		t.Errorf("member = %+v", member)
	}
	if len(member.Positions) != 1 || member.Positions[0].Symbol != "AAPL" {
		t.Errorf("positions = %+v", member.Positions)
	}
	if len(bus.published) != 1 || !strings.Contains(bus.published[0], EventGroupCreated) {
		t.Errorf("published = %v, want one %s event", bus.published, EventGroupCreated)
	}
}

func TestCreateGroupInvalidName(t *testing.T) {
	svc, _, _, _ := newGroupService()
	ctx := context.Background()

	if _, _, err := svc.CreateGroup(ctx, alice(), "   ", somePositions()); !errors.Is(err, ErrInvalidGroupName) {
		t.Fatalf("blank name error = %v, want ErrInvalidGroupName", err)
	}
	long := strings.Repeat("x", domain.MaxGroupNameLen+1)
	if _, _, err := svc.CreateGroup(ctx, alice(), long, somePositions()); !errors.Is(err, ErrInvalidGroupName) {
		t.Fatalf("long name error = %v, want ErrInvalidGroupName", err)
	}
}

func TestCreateGroupRejectsInvalidPositions(t *testing.T) {
	svc, gs, _, _ := newGroupService()

	_, _, err := svc.CreateGroup(context.Background(), alice(), "g", nil)
	if !errors.Is(err, groups.ErrEmptyPositions) {
		t.Fatalf("error = %v, want ErrEmptyPositions", err)
	}
	if len(gs.groups) != 0 {
		t.Error("group created despite invalid positions")
	}
}

func TestCreateGroupWhileAlreadyMember(t *testing.T) {
	svc, _, _, _ := newGroupService()
	ctx := context.Background()

	if _, _, err := svc.CreateGroup(ctx, alice(), "first", somePositions()); err != nil {
		t.Fatalf("first CreateGroup() unexpected error: %v", err)
	}
	_, _, err := svc.CreateGroup(ctx, alice(), "second", somePositions())
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("second CreateGroup() error = %v, want ErrAlreadyMember", err)
	}
}

func TestJoinGroup(t *testing.T) {
	svc, _, _, bus := newGroupService()
	ctx := context.Background()

	group, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}

	// Codes are matched case-insensitively after normalisation.
	joined, member, err := svc.JoinGroup(ctx, bob(), " "+strings.ToLower(group.InviteCode)+" ", somePositions())
	if err != nil {
		t.Fatalf("JoinGroup() unexpected error: %v", err)
	}
	if joined.ID != group.ID {
		t.Errorf("joined group ID = %s, want %s", joined.ID, group.ID)
	}
	if member.UserID != "u-bob" {
		t.Errorf("member user = %s, want u-bob", member.UserID)
	}
	if len(bus.published) != 2 || !strings.Contains(bus.published[1], EventMemberJoined) {
		t.Errorf("published = %v, want %s event second", bus.published, EventMemberJoined)
	}
}

func TestJoinGroupMissingCode(t *testing.T) {
	svc, _, _, _ := newGroupService()

	_, _, err := svc.JoinGroup(context.Background(), bob(), "   ", somePositions())
	if !errors.Is(err, ErrMissingInviteCode) {
		t.Fatalf("JoinGroup() error = %v, want ErrMissingInviteCode", err)
	}
}

func TestJoinGroupUnknownCode(t *testing.T) {
	svc, _, _, _ := newGroupService()

	_, _, err := svc.JoinGroup(context.Background(), bob(), "DEADBEEF", somePositions())
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("JoinGroup() error = %v, want ErrGroupNotFound", err)
	}
}

func TestJoinGroupTwice(t *testing.T) {
	svc, _, _, _ := newGroupService()
	ctx := context.Background()

	group, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}
	if _, _, err := svc.JoinGroup(ctx, bob(), group.InviteCode, somePositions()); err != nil {
		t.Fatalf("first JoinGroup() unexpected error: %v", err)
	}
	_, _, err = svc.JoinGroup(ctx, bob(), group.InviteCode, somePositions())
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("second JoinGroup() error = %v, want ErrAlreadyMember", err)
	}
}

func TestLeaveGroup(t *testing.T) {
	svc, _, ms, bus := newGroupService()
	ctx := context.Background()

	group, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}

	if err := svc.LeaveGroup(ctx, alice(), group.ID); err != nil {
		t.Fatalf("LeaveGroup() unexpected error: %v", err)
	}
	if _, err := ms.GetByUserID(ctx, "u-alice"); !errors.Is(err, domain.ErrNotAMember) {
		t.Error("membership still present after leave")
	}
	if len(bus.published) != 2 || !strings.Contains(bus.published[1], EventMemberLeft) {
		t.Errorf("published = %v, want %s event second", bus.published, EventMemberLeft)
	}

	// Leaving again is a not-a-member error, unknown group a not-found error.
	if err := svc.LeaveGroup(ctx, alice(), group.ID); !errors.Is(err, domain.ErrNotAMember) {
		t.Errorf("second LeaveGroup() error = %v, want ErrNotAMember", err)
	}
	if err := svc.LeaveGroup(ctx, alice(), "missing"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("LeaveGroup(missing) error = %v, want ErrGroupNotFound", err)
	}
}

func TestUpdatePositions(t *testing.T) {
	svc, _, ms, bus := newGroupService()
	ctx := context.Background()

	if _, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions()); err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}

	member, err := svc.UpdatePositions(ctx, alice(), []groups.PositionInput{
		{Symbol: "msft", AmountInvested: 250.555},
		{Symbol: "TSLA", AmountInvested: 100},
	})
	if err != nil {
		t.Fatalf("UpdatePositions() unexpected error: %v", err)
	}
	if len(member.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(member.Positions))
	}
	if member.Positions[0].Symbol != "MSFT" || member.Positions[0].AmountInvested != 250.56 {
		t.Errorf("position[0] = %+v, want MSFT 250.56", member.Positions[0])
	}

	stored, err := ms.GetByUserID(ctx, "u-alice")
	if err != nil {
		t.Fatalf("GetByUserID() unexpected error: %v", err)
	}
	if len(stored.Positions) != 2 {
		t.Errorf("stored %d positions, want 2", len(stored.Positions))
	}
	if len(bus.published) != 2 || !strings.Contains(bus.published[1], EventPositionsUpdated) {
		t.Errorf("published = %v, want %s event second", bus.published, EventPositionsUpdated)
	}
}

func TestUpdatePositionsRejectsDuplicateSymbols(t *testing.T) {
	svc, _, ms, bus := newGroupService()
	ctx := context.Background()

	if _, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions()); err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}

	// The second entry normalises to the same symbol as the first.
	_, err := svc.UpdatePositions(ctx, alice(), []groups.PositionInput{
		{Symbol: "AAPL", AmountInvested: 100},
		{Symbol: " aapl ", AmountInvested: 200},
	})
	var dup *groups.DuplicateSymbolError
	if !errors.As(err, &dup) {
		t.Fatalf("UpdatePositions() error = %v, want DuplicateSymbolError", err)
	}
	if dup.Symbol != "AAPL" {
		t.Errorf("duplicate symbol = %q, want AAPL", dup.Symbol)
	}

	stored, err := ms.GetByUserID(ctx, "u-alice")
	if err != nil {
		t.Fatalf("GetByUserID() unexpected error: %v", err)
	}
	if len(stored.Positions) != 1 || stored.Positions[0].Symbol != "AAPL" {
		t.Errorf("stored positions = %+v, want the original AAPL position untouched", stored.Positions)
	}
	if len(bus.published) != 1 {
		t.Errorf("published = %v, want no event for the rejected update", bus.published)
	}
}

func TestUpdatePositionsNotAMember(t *testing.T) {
	svc, _, _, _ := newGroupService()

	_, err := svc.UpdatePositions(context.Background(), alice(), somePositions())
	if !errors.Is(err, domain.ErrNotAMember) {
		t.Fatalf("UpdatePositions() error = %v, want ErrNotAMember", err)
	}
}

func TestMyGroup(t *testing.T) {
	svc, _, _, _ := newGroupService()
	ctx := context.Background()

	created, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}

	group, member, err := svc.MyGroup(ctx, alice())
	if err != nil {
		t.Fatalf("MyGroup() unexpected error: %v", err)
	}
	if group.ID != created.ID || member.UserID != "u-alice" {
		t.Errorf("MyGroup() = %+v / %+v", group, member)
	}

	if _, _, err := svc.MyGroup(ctx, bob()); !errors.Is(err, domain.ErrNotAMember) {
		t.Fatalf("MyGroup() for non-member error = %v, want ErrNotAMember", err)
	}
}

func TestListMembers(t *testing.T) {
	svc, _, _, _ := newGroupService()
	ctx := context.Background()

	group, _, err := svc.CreateGroup(ctx, alice(), "g", somePositions())
	if err != nil {
		t.Fatalf("CreateGroup() unexpected error: %v", err)
	}
	if _, _, err := svc.JoinGroup(ctx, bob(), group.InviteCode, somePositions()); err != nil {
		t.Fatalf("JoinGroup() unexpected error: %v", err)
	}

	members, err := svc.ListMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListMembers() unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}

	if _, err := svc.ListMembers(ctx, "missing"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("ListMembers() for unknown group error = %v, want ErrGroupNotFound", err)
	}
}
