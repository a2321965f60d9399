// Package statuses publishes status-effect lifecycle events.
package statuses

import (
	"context"

	"gloamdelve/server/logging"
)

const (
	// EventApplied is emitted when a timed status lands on an actor.
	EventApplied logging.EventType = "statuses.applied"
	// EventEnded is emitted when a status counter reaches zero.
	EventEnded logging.EventType = "statuses.ended"
)

// AppliedPayload captures a status application.
type AppliedPayload struct {
	Status string `json:"status"`
	Ticks  int    `json:"ticks"`
}

// EndedPayload captures a status expiry.
type EndedPayload struct {
	Status string `json:"status"`
}

// Applied publishes a status application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AppliedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}

// Ended publishes a status expiry event.
func Ended(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EndedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEnded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}
