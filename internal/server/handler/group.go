package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lironhefcode/stock-market/internal/domain"
	"github.com/lironhefcode/stock-market/internal/groups"
)

// GroupService defines the group lifecycle operations the handler requires.
type GroupService interface {
	CreateGroup(ctx context.Context, who domain.Identity, name string, positions []groups.PositionInput) (domain.Group, domain.Member, error)
	JoinGroup(ctx context.Context, who domain.Identity, inviteCode string, positions []groups.PositionInput) (domain.Group, domain.Member, error)
	LeaveGroup(ctx context.Context, who domain.Identity, groupID string) error
	MyGroup(ctx context.Context, who domain.Identity) (domain.Group, domain.Member, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.Member, error)
	UpdatePositions(ctx context.Context, who domain.Identity, positions []groups.PositionInput) (domain.Member, error)
}

// LeaderboardService builds group leaderboards for the handler.
type LeaderboardService interface {
	BuildLeaderboard(ctx context.Context, groupID string) (domain.Leaderboard, error)
}

// GroupHandler serves group-related HTTP endpoints.
type GroupHandler struct {
	groups      GroupService
	leaderboard LeaderboardService
	logger      *slog.Logger
}

// NewGroupHandler creates a GroupHandler with the given services and logger.
func NewGroupHandler(groupSvc GroupService, leaderboard LeaderboardService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		groups:      groupSvc,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

type createGroupRequest struct {
	Name      string                 `json:"name"`
	Positions []groups.PositionInput `json:"positions"`
}

type joinGroupRequest struct {
	InviteCode string                 `json:"inviteCode"`
	Positions  []groups.PositionInput `json:"positions"`
}

type updatePositionsRequest struct {
	Positions []groups.PositionInput `json:"positions"`
}

type groupResponse struct {
	Group  domain.Group  `json:"group"`
	Member domain.Member `json:"member"`
}

// CreateGroup creates a new group with the caller as first member.
// POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, member, err := h.groups.CreateGroup(r.Context(), who, req.Name, req.Positions)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, groupResponse{Group: group, Member: member})
}

// JoinGroup adds the caller to the group holding the submitted invite code.
// POST /api/groups/join
func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, member, err := h.groups.JoinGroup(r.Context(), who, req.InviteCode, req.Positions)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, groupResponse{Group: group, Member: member})
}

// LeaveGroup removes the caller from a group.
// DELETE /api/groups/{id}/members/me
func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.groups.LeaveGroup(r.Context(), who, pathParam(r, "id")); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MyGroup returns the caller's group and membership.
// GET /api/groups/me
func (h *GroupHandler) MyGroup(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	group, member, err := h.groups.MyGroup(r.Context(), who)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, groupResponse{Group: group, Member: member})
}

// Members returns a group's member list.
// GET /api/groups/{id}/members
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}

	members, err := h.groups.ListMembers(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	if members == nil {
		members = []domain.Member{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// UpdatePositions replaces the caller's portfolio.
// PUT /api/positions
func (h *GroupHandler) UpdatePositions(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req updatePositionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.groups.UpdatePositions(r.Context(), who, req.Positions)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// Leaderboard returns the ranked leaderboard for a group.
// GET /api/groups/{id}/leaderboard
func (h *GroupHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}

	lb, err := h.leaderboard.BuildLeaderboard(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, lb)
}
