package sim

import "testing"

func TestAdvanceSubtractsMinimumDelayFromEveryClock(t *testing.T) {
	w, _ := newTestWorld("clock-min", Deps{})

	w.player.TicksUntilTurn = 100
	w.ticksTillUpdateEnvironment = 40
	monster := newTestMonster("rat", 100)
	monster.TicksUntilTurn = 70
	w.SpawnMonster(monster, 0)

	snap := w.advanceToNextEvent()

	if snap.delta != 40 {
		t.Fatalf("expected delta 40, got %d", snap.delta)
	}
	if w.player.TicksUntilTurn != 60 {
		t.Fatalf("expected player clock 60, got %d", w.player.TicksUntilTurn)
	}
	if w.ticksTillUpdateEnvironment != 0 {
		t.Fatalf("expected environment countdown 0, got %d", w.ticksTillUpdateEnvironment)
	}
	if monster.TicksUntilTurn != 30 {
		t.Fatalf("expected monster clock 30, got %d", monster.TicksUntilTurn)
	}
}

func TestAdvanceSkipsDyingActors(t *testing.T) {
	w, _ := newTestWorld("clock-dying", Deps{})

	w.player.TicksUntilTurn = 100
	w.ticksTillUpdateEnvironment = 100
	dying := newTestMonster("corpse", 100)
	dying.TicksUntilTurn = 5
	dying.Dying = true
	w.SpawnMonster(dying, 0)

	snap := w.advanceToNextEvent()

	if snap.delta != 100 {
		t.Fatalf("expected dying actor excluded from the minimum, got delta %d", snap.delta)
	}
	if dying.TicksUntilTurn != 5 {
		t.Fatalf("expected dying actor's clock untouched, got %d", dying.TicksUntilTurn)
	}
}

func TestAdvanceClampsNegativeDelta(t *testing.T) {
	w, _ := newTestWorld("clock-negative", Deps{})

	w.player.TicksUntilTurn = -10
	w.ticksTillUpdateEnvironment = 30

	snap := w.advanceToNextEvent()

	if snap.delta != 0 {
		t.Fatalf("expected delta clamped to 0, got %d", snap.delta)
	}
	if w.player.TicksUntilTurn != -10 || w.ticksTillUpdateEnvironment != 30 {
		t.Fatal("expected no clocks to move when delta is 0")
	}
}

func TestSnapshotExcludesMidTickSpawns(t *testing.T) {
	w, _ := newTestWorld("clock-spawn", Deps{})

	first := newTestMonster("first", 100)
	w.SpawnMonster(first, 0)

	snap := w.advanceToNextEvent()

	late := newTestMonster("late", 100)
	w.SpawnMonster(late, 0)

	for _, a := range snap.actors {
		if a == late {
			t.Fatal("expected mid-tick spawn to be absent from the snapshot")
		}
	}
	if len(snap.actors) != 1 {
		t.Fatalf("expected only the pre-tick roster, got %d actors", len(snap.actors))
	}
}
