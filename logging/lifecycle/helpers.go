// Package lifecycle publishes session start and end events.
package lifecycle

import (
	"context"

	"gloamdelve/server/logging"
)

const (
	// EventCreated is emitted when a world is constructed.
	EventCreated logging.EventType = "lifecycle.created"
	// EventGameOver is emitted when the fatal flag latches.
	EventGameOver logging.EventType = "lifecycle.game_over"
)

// CreatedPayload captures the world parameters at construction.
type CreatedPayload struct {
	Seed   string `json:"seed"`
	Depths int    `json:"depths"`
}

// GameOverPayload captures the terminal reason.
type GameOverPayload struct {
	Reason string `json:"reason"`
}

// Created publishes a world construction event.
func Created(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CreatedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCreated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	})
}

// GameOver publishes the terminal event.
func GameOver(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GameOverPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGameOver,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	})
}
