package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// EventNotifier forwards group lifecycle events from the bus to the
// notification channels. It runs alongside the WebSocket hub so Telegram and
// Discord see the same events browser clients do. Digest events are skipped;
// the digest job notifies directly with the full leaderboard text.
type EventNotifier struct {
	bus      domain.EventBus
	notifier DigestNotifier
	logger   *slog.Logger
}

// NewEventNotifier creates an EventNotifier.
func NewEventNotifier(bus domain.EventBus, notifier DigestNotifier, logger *slog.Logger) *EventNotifier {
	return &EventNotifier{
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}
}

// Run subscribes to the group events channel and forwards events until the
// context is cancelled.
func (n *EventNotifier) Run(ctx context.Context) error {
	ch, err := n.bus.Subscribe(ctx, GroupEventsChannel)
	if err != nil {
		return fmt.Errorf("event_notifier: subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			n.handle(ctx, data)
		}
	}
}

func (n *EventNotifier) handle(ctx context.Context, data []byte) {
	var ev GroupEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		n.logger.WarnContext(ctx, "event decode failed", slog.String("error", err.Error()))
		return
	}
	if ev.Type == EventDigest {
		return
	}

	title, message := formatEvent(ev)
	if title == "" {
		return
	}

	if err := n.notifier.Notify(ctx, ev.Type, title, message); err != nil {
		n.logger.WarnContext(ctx, "event notify failed",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()),
		)
	}
}

// formatEvent renders a human-readable title and message for an event, or an
// empty title for unknown event types.
func formatEvent(ev GroupEvent) (title, message string) {
	switch ev.Type {
	case EventGroupCreated:
		return "Group created", fmt.Sprintf("%s created group %q", ev.Username, ev.GroupName)
	case EventMemberJoined:
		return "Member joined", fmt.Sprintf("%s joined group %q", ev.Username, ev.GroupName)
	case EventMemberLeft:
		return "Member left", fmt.Sprintf("%s left their group", ev.Username)
	case EventPositionsUpdated:
		return "Positions updated", fmt.Sprintf("%s updated their positions", ev.Username)
	default:
		return "", ""
	}
}
