package sim

import "testing"

func TestFastMonsterActsTwicePerPlayerTurn(t *testing.T) {
	ai := &countingAI{}
	w, _ := newTestWorld("scheduler-speed", Deps{AI: ai})

	monster := newTestMonster("ghoul", 50)
	w.SpawnMonster(monster, 0)

	w.PlayerTurnEnded()

	if got := ai.turns["ghoul"]; got != 2 {
		t.Fatalf("expected monster at half the player's delay to act twice, got %d", got)
	}
}

func TestClockTieAtBudgetBoundaryGoesToPlayer(t *testing.T) {
	ai := &countingAI{}
	w, _ := newTestWorld("scheduler-tie", Deps{AI: ai})

	// Same speed as the player: its clock reaches 0 exactly when the
	// player's budget runs out.
	monster := newTestMonster("wraith", 100)
	monster.TicksUntilTurn = 100
	w.SpawnMonster(monster, 0)

	w.PlayerTurnEnded()
	if got := ai.turns["wraith"]; got != 0 {
		t.Fatalf("expected boundary tie to defer the monster, got %d turns", got)
	}

	// The deferred turn resolves first thing next call.
	w.PlayerTurnEnded()
	if got := ai.turns["wraith"]; got != 1 {
		t.Fatalf("expected exactly one deferred turn, got %d", got)
	}
}

func TestEnvironmentCountdownRollsOverPreservingDebt(t *testing.T) {
	w, _ := newTestWorld("scheduler-rollover", Deps{})

	w.ticksTillUpdateEnvironment = -3
	if !w.maybeEnvironmentTick(tickSnapshot{}) {
		t.Fatal("expected environment tick to fire when countdown elapsed")
	}
	if w.ticksTillUpdateEnvironment != environmentTickInterval-3 {
		t.Fatalf("expected overrun debt to carry into the next window, got %d", w.ticksTillUpdateEnvironment)
	}
}

func TestEnvironmentTickNotDueIsNoOp(t *testing.T) {
	w, _ := newTestWorld("scheduler-notdue", Deps{})

	w.ticksTillUpdateEnvironment = 42
	nutrition := w.player.Nutrition
	if w.maybeEnvironmentTick(tickSnapshot{}) {
		t.Fatal("expected no environment tick while countdown is positive")
	}
	if w.ticksTillUpdateEnvironment != 42 {
		t.Fatalf("expected countdown untouched, got %d", w.ticksTillUpdateEnvironment)
	}
	if w.player.Nutrition != nutrition {
		t.Fatalf("expected nutrition untouched, got %d", w.player.Nutrition)
	}
}

func TestParalysisRepeatsPassesAndFreezesPlayerTurnNumber(t *testing.T) {
	w, _ := newTestWorld("scheduler-paralysis", Deps{})

	w.player.SetStatus(StatusParalyzed, 2, 2)
	w.PlayerTurnEnded()

	if w.player.hasStatus(StatusParalyzed) {
		t.Fatal("expected paralysis to run out across repeated passes")
	}
	if w.PlayerTurnNumber() != 0 {
		t.Fatalf("expected player turn number frozen under paralysis, got %d", w.PlayerTurnNumber())
	}
	if w.AbsoluteTurnNumber() != 2 {
		t.Fatalf("expected absolute turn number to advance every pass, got %d", w.AbsoluteTurnNumber())
	}
}

func TestStarvationIsFatalAndSkipsPostTurnBookkeeping(t *testing.T) {
	w, _ := newTestWorld("scheduler-starve", Deps{})

	w.player.Nutrition = 0
	w.player.HP = 2

	w.PlayerTurnEnded()
	if w.GameOver() {
		t.Fatal("expected the first starving tick to leave the player at 1 HP")
	}
	if w.player.HP != 1 {
		t.Fatalf("expected 1 HP lost per starving environment tick, got %d", w.player.HP)
	}

	w.PlayerTurnEnded()
	if !w.GameOver() {
		t.Fatal("expected starvation at 0 HP to be fatal")
	}
	if total := w.Journal().Total(); total != 1 {
		t.Fatalf("expected the fatal turn to skip the journal record, got %d records", total)
	}
}

func TestGameOverLatchBlocksFurtherTurns(t *testing.T) {
	w, _ := newTestWorld("scheduler-latch", Deps{})

	w.setGameOver("you die.")
	before := w.AbsoluteTurnNumber()
	w.PlayerTurnEnded()
	if w.AbsoluteTurnNumber() != before {
		t.Fatal("expected no scheduling after game over")
	}
}

func TestCompletedTurnRecordsJournalEntry(t *testing.T) {
	w, _ := newTestWorld("scheduler-journal", Deps{})

	w.PlayerTurnEnded()
	rec, ok := w.Journal().Last()
	if !ok {
		t.Fatal("expected a journal record after a completed turn")
	}
	if rec.PlayerTurn != 1 || rec.AbsoluteTurn != 1 {
		t.Fatalf("unexpected turn numbers in record: %+v", rec)
	}
	if rec.Checksum != rec.ComputeChecksum() {
		t.Fatal("expected stored checksum to match recomputation")
	}
}

func TestMonsterSpawnFuseRearmsAfterFiring(t *testing.T) {
	w, _ := newTestWorld("scheduler-fuse", Deps{})

	w.monsterSpawnFuse = 1
	w.PlayerTurnEnded()
	if w.monsterSpawnFuse < monsterSpawnFuseMin || w.monsterSpawnFuse > monsterSpawnFuseMax {
		t.Fatalf("expected fuse re-armed into [%d,%d], got %d", monsterSpawnFuseMin, monsterSpawnFuseMax, w.monsterSpawnFuse)
	}
}

func TestHazardWarningLatchesOncePerEngagement(t *testing.T) {
	w, _ := newTestWorld("scheduler-hazard", Deps{})

	level := w.currentLevel()
	for x := 0; x < level.Width; x++ {
		for y := 0; y < level.Height; y++ {
			level.Cells[x][y].Terrain = TerrainLava
		}
	}
	w.player.SetStatus(StatusFireImmune, 1, 1)

	w.evaluateHazardWarnings()
	if !w.hazardWarningLatched {
		t.Fatal("expected warning to latch with immunity about to expire over lava")
	}
	flares := len(w.pendingFlares)

	w.evaluateHazardWarnings()
	if len(w.pendingFlares) != flares {
		t.Fatal("expected no second warning while latched")
	}

	// Hazard clears: the latch resets.
	level.CellAt(w.player.X, w.player.Y).Terrain = TerrainFloor
	w.evaluateHazardWarnings()
	if w.hazardWarningLatched {
		t.Fatal("expected latch reset once the hazard cleared")
	}
}

func TestDeferredHealthAlertsFlushAtTurnEnd(t *testing.T) {
	w, presenter := newTestWorld("scheduler-alerts", Deps{})

	monster := newTestMonster("ogre", 100)
	monster.TicksUntilTurn = 500
	w.SpawnMonster(monster, 0)

	w.snapshotCreatureHP()
	monster.HP -= 5
	w.flushHealthAlerts()

	if len(presenter.combat) != 1 {
		t.Fatalf("expected one deferred damage alert, got %d", len(presenter.combat))
	}
}

func TestBurningDamagesThePlayerOverTheTurn(t *testing.T) {
	w, _ := newTestWorld("burning-turn", Deps{})
	p := w.player
	p.SetStatus(StatusBurning, 5, 5)

	w.PlayerTurnEnded()

	if lost := p.MaxHP - p.HP; lost < 1 || lost > 3 {
		t.Fatalf("expected 1-3 burning damage over the turn, got %d", lost)
	}
}

func TestBurningDeathAbortsTheTurn(t *testing.T) {
	w, presenter := newTestWorld("burning-fatal", Deps{})
	p := w.player
	p.HP = 1
	p.SetStatus(StatusBurning, 5, 5)

	w.PlayerTurnEnded()

	if !w.GameOver() {
		t.Fatal("expected burning to finish off a player at 1 HP")
	}
	if got := presenter.countMessage("you burn to death."); got != 1 {
		t.Fatalf("expected the burning death message once, got %d", got)
	}
	if w.Journal().Total() != 0 {
		t.Fatalf("expected the fatal turn to skip the journal record, got %d", w.Journal().Total())
	}
}

func TestPoisonDrainsExactlyOneHPPerTurn(t *testing.T) {
	w, _ := newTestWorld("poison-turn", Deps{})
	p := w.player
	p.SetStatus(StatusPoisoned, 3, 3)

	w.PlayerTurnEnded()

	if lost := p.MaxHP - p.HP; lost != 1 {
		t.Fatalf("expected exactly 1 poison damage, got %d", lost)
	}
}

func TestPoisonDeathAbortsTheTurn(t *testing.T) {
	w, presenter := newTestWorld("poison-fatal", Deps{})
	p := w.player
	p.HP = 1
	p.SetStatus(StatusPoisoned, 3, 3)

	w.PlayerTurnEnded()

	if !w.GameOver() {
		t.Fatal("expected poison to finish off a player at 1 HP")
	}
	if got := presenter.countMessage("the poison overwhelms you."); got != 1 {
		t.Fatalf("expected the poison death message once, got %d", got)
	}
	if w.Journal().Total() != 0 {
		t.Fatalf("expected the fatal turn to skip the journal record, got %d", w.Journal().Total())
	}
}

func TestFlareFlushTriggersOnePacingPause(t *testing.T) {
	w, presenter := newTestWorld("flare-pause", Deps{})
	w.queueFlare(Flare{X: 1, Y: 1, Depth: 0, Kind: FlareTeleport})

	w.PlayerTurnEnded()

	if len(presenter.flares) != 1 {
		t.Fatalf("expected the queued flare flushed, got %d", len(presenter.flares))
	}
	if presenter.pauses != 1 {
		t.Fatalf("expected one pacing pause after the flare flush, got %d", presenter.pauses)
	}

	w.PlayerTurnEnded()
	if presenter.pauses != 1 {
		t.Fatalf("expected no pause on a flare-free turn, got %d", presenter.pauses)
	}
}
