package sim

import "testing"

// replaySession mirrors runScriptedSession but lets the test attach a
// verifier. The world setup must stay identical to the recording run or the
// checksums would diverge for the wrong reason.
func replaySession(t *testing.T, seed string, turns int, checker *ScriptedReplay) *World {
	t.Helper()

	deps := Deps{AI: &countingAI{}}
	if checker != nil {
		deps.Replay = checker
	}
	w, _ := newTestWorld(seed, deps)

	chaser := newTestMonster("chaser", 50)
	w.SpawnMonster(chaser, 0)

	faller := newTestMonster("faller", 100)
	faller.X, faller.Y = 7, 7
	w.SpawnMonster(faller, 0)
	w.currentLevel().CellAt(7, 7).Terrain = TerrainChasm

	for i := 0; i < turns; i++ {
		w.PlayerTurnEnded()
		if w.GameOver() {
			t.Fatalf("unexpected game over on turn %d", i+1)
		}
	}
	return w
}

func TestScriptedReplayPassesOnFaithfulSession(t *testing.T) {
	const turns = 6

	recorded := replaySession(t, "replay-seed", turns, nil)

	checker := NewScriptedReplay(recorded.Journal().Records())
	replaySession(t, "replay-seed", turns, checker)

	if got := checker.Desyncs(); got != 0 {
		t.Fatalf("expected a faithful replay to verify cleanly, got %d desyncs", got)
	}
}

func TestScriptedReplayDetectsTamperedRecord(t *testing.T) {
	const turns = 6

	recorded := replaySession(t, "replay-seed", turns, nil)

	script := recorded.Journal().Records()
	script[2].Checksum++

	checker := NewScriptedReplay(script)
	replaySession(t, "replay-seed", turns, checker)

	if got := checker.Desyncs(); got != 1 {
		t.Fatalf("expected exactly the tampered turn to desync, got %d", got)
	}
}

func TestScriptedReplayIgnoresTurnsBeyondScript(t *testing.T) {
	recorded := replaySession(t, "replay-seed", 3, nil)

	checker := NewScriptedReplay(recorded.Journal().Records())
	replaySession(t, "replay-seed", 6, checker)

	if got := checker.Desyncs(); got != 0 {
		t.Fatalf("expected unverified overrun turns to pass, got %d desyncs", got)
	}
}
