// Package turns publishes turn-cycle bookkeeping events.
package turns

import (
	"context"

	"gloamdelve/server/logging"
)

const (
	// EventCompleted is emitted once per fully resolved player turn.
	EventCompleted logging.EventType = "turns.completed"
	// EventDesync marks a live turn record diverging from a replay script.
	EventDesync logging.EventType = "turns.desync"
)

// CompletedPayload is the end-of-turn summary.
type CompletedPayload struct {
	PlayerTurn uint64 `json:"playerTurn"`
	Depth      int    `json:"depth"`
	HP         int    `json:"hp"`
	RNGDraws   uint64 `json:"rngDraws"`
}

// Completed publishes an end-of-turn event.
func Completed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CompletedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCompleted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}

// DesyncPayload reports the first divergence between a replayed session and
// the script it is being verified against.
type DesyncPayload struct {
	PlayerTurn   uint64 `json:"playerTurn"`
	WantChecksum uint64 `json:"wantChecksum"`
	GotChecksum  uint64 `json:"gotChecksum"`
}

// Desync publishes a replay divergence. Divergence is a defect signal, so it
// goes out at error severity.
func Desync(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload DesyncPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDesync,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}
