package sim

import (
	"context"

	"gloamdelve/server/internal/journal"
	loggingturns "gloamdelve/server/logging/turns"
)

// ScriptedReplay verifies a session against the journal records of a prior
// run of the same seed and input script. Detection is advisory: a mismatch
// is published and counted, never acted on.
type ScriptedReplay struct {
	script  []journal.TurnRecord
	next    int
	desyncs int
}

// NewScriptedReplay wraps a recorded turn script for verification.
func NewScriptedReplay(script []journal.TurnRecord) *ScriptedReplay {
	return &ScriptedReplay{script: script}
}

// ConsistencyCheck compares the live record against the next scripted one.
// Turns beyond the end of the script pass unverified.
func (r *ScriptedReplay) ConsistencyCheck(w *World, rec journal.TurnRecord) {
	if r == nil || r.next >= len(r.script) {
		return
	}
	want := r.script[r.next]
	r.next++
	if want.Checksum == rec.Checksum {
		return
	}
	r.desyncs++
	if w == nil {
		return
	}
	loggingturns.Desync(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(&w.player.Actor),
		loggingturns.DesyncPayload{
			PlayerTurn:   rec.PlayerTurn,
			WantChecksum: want.Checksum,
			GotChecksum:  rec.Checksum,
		},
		nil,
	)
}

// Desyncs reports how many scripted turns diverged.
func (r *ScriptedReplay) Desyncs() int {
	if r == nil {
		return 0
	}
	return r.desyncs
}
