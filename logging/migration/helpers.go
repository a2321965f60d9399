// Package migration publishes cross-depth movement events.
package migration

import (
	"context"

	"gloamdelve/server/logging"
)

const (
	// EventFell is emitted when an actor drops through a chasm.
	EventFell logging.EventType = "migration.fell"
	// EventMigrated is emitted when a scheduled arrival completes.
	EventMigrated logging.EventType = "migration.migrated"
)

// FellPayload captures a chasm fall between depths.
type FellPayload struct {
	FromDepth int `json:"fromDepth"`
	ToDepth   int `json:"toDepth"`
	Damage    int `json:"damage"`
}

// MigratedPayload captures a countdown-driven level entry.
type MigratedPayload struct {
	FromDepth int  `json:"fromDepth"`
	ToDepth   int  `json:"toDepth"`
	ViaPit    bool `json:"viaPit"`
}

// Fell publishes a fall event.
func Fell(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FellPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFell,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryMigration,
		Payload:  payload,
		Extra:    extra,
	})
}

// Migrated publishes an arrival event.
func Migrated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MigratedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMigrated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryMigration,
		Payload:  payload,
		Extra:    extra,
	})
}
