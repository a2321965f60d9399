// Package hazards publishes terrain and gas hazard events.
package hazards

import (
	"context"

	"gloamdelve/server/logging"
)

const (
	// EventDamaged is emitted when a hazard damages an actor.
	EventDamaged logging.EventType = "hazards.damaged"
	// EventWarned is emitted when the point-of-no-return warning latches.
	EventWarned logging.EventType = "hazards.warned"
)

// DamagedPayload captures one hazard damage application.
type DamagedPayload struct {
	Hazard string `json:"hazard"`
	Amount int    `json:"amount"`
}

// WarnedPayload captures a latched hazard warning.
type WarnedPayload struct {
	Hazard    string `json:"hazard"`
	Remaining int    `json:"remaining"`
	Travel    int    `json:"travel"`
}

// Damaged publishes a hazard damage event.
func Damaged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload DamagedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamaged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryHazard,
		Payload:  payload,
		Extra:    extra,
	})
}

// Warned publishes a hazard warning event.
func Warned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload WarnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWarned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryHazard,
		Payload:  payload,
		Extra:    extra,
	})
}
