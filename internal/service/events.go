package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// Event channel names on the bus. GroupEventsChannel carries every group
// lifecycle event; subscribers filter by type and group.
const GroupEventsChannel = "events:groups"

// Event types.
const (
	EventGroupCreated     = "group_created"
	EventMemberJoined     = "member_joined"
	EventMemberLeft       = "member_left"
	EventPositionsUpdated = "positions_updated"
	EventDigest           = "digest"
)

// GroupEvent is the payload published to the bus for group lifecycle changes.
type GroupEvent struct {
	Type      string    `json:"type"`
	GroupID   string    `json:"groupId"`
	GroupName string    `json:"groupName,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Username  string    `json:"username,omitempty"`
	At        time.Time `json:"at"`
}

// publishEvent marshals and publishes an event, logging instead of failing
// the caller's operation when the bus is unavailable.
func publishEvent(ctx context.Context, bus domain.EventBus, logger *slog.Logger, ev GroupEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorContext(ctx, "event marshal failed", slog.String("type", ev.Type), slog.String("error", err.Error()))
		return
	}
	if err := bus.Publish(ctx, GroupEventsChannel, payload); err != nil {
		logger.WarnContext(ctx, "event publish failed",
			slog.String("type", ev.Type),
			slog.String("group_id", ev.GroupID),
			slog.String("error", err.Error()),
		)
	}
}
