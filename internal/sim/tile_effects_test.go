package sim

import "testing"

func TestLavaIsInstantlyFatalForThePlayer(t *testing.T) {
	w, _ := newTestWorld("tile-lava", Deps{})

	w.playerCell().Terrain = TerrainLava
	out := w.applyInstantTileEffects(&w.player.Actor)

	if out != outcomeFatal {
		t.Fatalf("expected fatal outcome, got %v", out)
	}
	if !w.GameOver() {
		t.Fatal("expected game over latched")
	}
}

func TestLevitationSurvivesLavaAndChasm(t *testing.T) {
	w, _ := newTestWorld("tile-levitate", Deps{})

	w.player.SetStatus(StatusLevitating, 10, 10)

	w.playerCell().Terrain = TerrainLava
	if out := w.applyInstantTileEffects(&w.player.Actor); out != outcomeContinue {
		t.Fatalf("expected levitation to clear lava, got %v", out)
	}

	w.playerCell().Terrain = TerrainChasm
	if out := w.applyInstantTileEffects(&w.player.Actor); out != outcomeContinue {
		t.Fatalf("expected levitation to clear the chasm, got %v", out)
	}
	if w.player.Falling {
		t.Fatal("expected no falling flag while levitating")
	}
}

func TestChasmFlagsPlayerFallingAndShortCircuits(t *testing.T) {
	w, _ := newTestWorld("tile-chasm", Deps{})

	w.playerCell().Terrain = TerrainChasm
	out := w.applyInstantTileEffects(&w.player.Actor)

	if out != outcomeTerminal {
		t.Fatalf("expected terminal-for-turn outcome, got %v", out)
	}
	if !w.player.Falling {
		t.Fatal("expected falling flag set")
	}
}

func TestWaterDousesBurning(t *testing.T) {
	w, _ := newTestWorld("tile-douse", Deps{})

	w.player.SetStatus(StatusBurning, 4, 4)
	w.playerCell().Terrain = TerrainShallowWater

	w.applyInstantTileEffects(&w.player.Actor)
	if w.player.hasStatus(StatusBurning) {
		t.Fatal("expected water to douse the flames")
	}
}

func TestPressurePlateFiresOncePerDepression(t *testing.T) {
	spy := &featureSpy{}
	w, _ := newTestWorld("tile-plate", Deps{Environment: spy})

	cell := w.playerCell()
	cell.Terrain = TerrainPressurePlate
	cell.PlateFeature = FeatureGasBurst

	w.applyInstantTileEffects(&w.player.Actor)
	w.applyInstantTileEffects(&w.player.Actor)
	if spy.spawned != 1 {
		t.Fatalf("expected one trigger per depression, got %d", spy.spawned)
	}

	// Vacate, re-arm, step back on.
	w.player.X, w.player.Y = 3, 3
	w.rearmPressurePlates(w.currentLevel())
	if cell.PlateDepressed {
		t.Fatal("expected vacated plate to re-arm")
	}
	w.player.X, w.player.Y = 0, 0
	w.applyInstantTileEffects(&w.player.Actor)
	if spy.spawned != 2 {
		t.Fatalf("expected second depression to fire again, got %d", spy.spawned)
	}
}

func TestOccupiedPlateStaysDepressed(t *testing.T) {
	w, _ := newTestWorld("tile-plate-occupied", Deps{})

	cell := w.playerCell()
	cell.Terrain = TerrainPressurePlate
	w.applyInstantTileEffects(&w.player.Actor)
	w.rearmPressurePlates(w.currentLevel())
	if !cell.PlateDepressed {
		t.Fatal("expected plate to stay depressed while occupied")
	}
}

func TestGasSetsFlatFloorAndNarratesFirstExposureOnly(t *testing.T) {
	w, presenter := newTestWorld("tile-gas", Deps{})

	cell := w.playerCell()
	cell.Gas = GasCaustic

	w.applyInstantTileEffects(&w.player.Actor)
	if got := w.player.Status(StatusNauseous); got != gasNauseaFloor {
		t.Fatalf("expected nausea floored at %d, got %d", gasNauseaFloor, got)
	}

	// Higher existing counter is never lowered.
	w.player.SetStatus(StatusNauseous, 30, 30)
	w.applyInstantTileEffects(&w.player.Actor)
	if got := w.player.Status(StatusNauseous); got != 30 {
		t.Fatalf("expected re-exposure to keep the higher counter, got %d", got)
	}

	if got := presenter.countMessage("a cloud of caustic gas makes you retch."); got != 1 {
		t.Fatalf("expected exactly one exposure narration, got %d", got)
	}
}

func TestPoisonDoseToppedUpToCeiling(t *testing.T) {
	w, _ := newTestWorld("tile-poison", Deps{})

	a := &w.player.Actor
	a.SetStatus(StatusPoisoned, 3, 3)

	w.addPoison(a, poisonDoseCeiling)
	if got := a.Status(StatusPoisoned); got != poisonDoseCeiling {
		t.Fatalf("expected poison topped up to %d, got %d", poisonDoseCeiling, got)
	}
	w.addPoison(a, poisonDoseCeiling)
	if got := a.Status(StatusPoisoned); got != poisonDoseCeiling {
		t.Fatalf("expected no stacking past the ceiling, got %d", got)
	}
}

func TestExplosionDamageFloorAndImmunityGrant(t *testing.T) {
	w, _ := newTestWorld("tile-blast", Deps{})

	monster := newTestMonster("brute", 100)
	monster.HP = 100
	monster.MaxHP = 100
	w.SpawnMonster(monster, 0)

	cell := w.currentLevel().CellAt(monster.X, monster.Y)
	cell.Gas = GasExplosive
	cell.Burning = true

	before := monster.HP
	w.applyInstantTileEffects(monster)

	damage := before - monster.HP
	if damage < 50 {
		t.Fatalf("expected at least maxHP/2 explosion damage, got %d", damage)
	}
	if got := monster.Status(StatusBlastImmune); got != explosionImmunityTicks {
		t.Fatalf("expected %d-tick blast immunity, got %d", explosionImmunityTicks, got)
	}

	// Immune actors shrug off the follow-up blast.
	hp := monster.HP
	w.applyInstantTileEffects(monster)
	if monster.HP != hp {
		t.Fatalf("expected immunity to block the blast, lost %d HP", hp-monster.HP)
	}
}

func TestGradualMagnitudeFormula(t *testing.T) {
	cases := []struct {
		maxHP, ticks, want int
	}{
		{30, 100, 2},
		{30, 50, 1},
		{10, 100, 1},
		{150, 100, 10},
		{150, 50, 5},
	}
	for _, tc := range cases {
		if got := gradualMagnitude(tc.maxHP, tc.ticks); got != tc.want {
			t.Fatalf("gradualMagnitude(%d, %d) = %d, want %d", tc.maxHP, tc.ticks, got, tc.want)
		}
	}
}

func TestAcidPoolScalesWithElapsedTicks(t *testing.T) {
	w, _ := newTestWorld("tile-acid", Deps{})

	w.player.MaxHP = 30
	w.player.HP = 30
	w.playerCell().Terrain = TerrainAcidPool

	w.applyGradualTileEffects(&w.player.Actor, 100)
	if got := 30 - w.player.HP; got != 2 {
		t.Fatalf("expected 2 acid damage for a 100-tick budget at 30 max HP, got %d", got)
	}
}

func TestHealingSpringClampsToMax(t *testing.T) {
	w, _ := newTestWorld("tile-spring", Deps{})

	w.player.HP = w.player.MaxHP - 1
	w.playerCell().Terrain = TerrainHealingSpring

	w.applyGradualTileEffects(&w.player.Actor, 200)
	if w.player.HP != w.player.MaxHP {
		t.Fatalf("expected healing clamped at max, got %d/%d", w.player.HP, w.player.MaxHP)
	}
}

func TestSecretDiscoveryPromotesTerrain(t *testing.T) {
	w, _ := newTestWorld("tile-secret", Deps{})

	cell := w.playerCell()
	cell.Terrain = TerrainWall
	cell.Secret = TerrainDownStairs

	w.applyInstantTileEffects(&w.player.Actor)
	if cell.Terrain != TerrainDownStairs || !cell.Discovered {
		t.Fatalf("expected secret promoted on entry, got %q discovered=%v", cell.Terrain, cell.Discovered)
	}
}

func TestWebSticksNonLevitatingActors(t *testing.T) {
	w, _ := newTestWorld("tile-web", Deps{})

	w.playerCell().Terrain = TerrainWeb
	w.applyInstantTileEffects(&w.player.Actor)
	if got := w.player.Status(StatusStuck); got != webStickTicks {
		t.Fatalf("expected %d-tick entanglement, got %d", webStickTicks, got)
	}
}

func TestDeepWaterSweepsPackItemAwayAtCertainOdds(t *testing.T) {
	w, presenter := newTestWorld("deep-water-loss", Deps{})
	p := w.player
	w.currentLevel().CellAt(p.X, p.Y).Terrain = TerrainDeepWater
	p.Pack = []*Item{{ID: "scroll-1", Name: "scroll", Category: ItemCategoryScroll}}

	// 200 submerged ticks puts the loss chance at 100 percent.
	w.applyGradualTileEffects(&p.Actor, 200)

	if len(p.Pack) != 0 {
		t.Fatalf("expected the pack item swept away, still carrying %d", len(p.Pack))
	}
	if got := presenter.countMessage("your scroll is swept away by the current!"); got != 1 {
		t.Fatalf("expected one loss message, got %d", got)
	}
}

func TestBriefSubmersionLeavesPackUntouched(t *testing.T) {
	w, _ := newTestWorld("deep-water-brief", Deps{})
	p := w.player
	w.currentLevel().CellAt(p.X, p.Y).Terrain = TerrainDeepWater
	p.Pack = []*Item{{ID: "scroll-1", Name: "scroll", Category: ItemCategoryScroll}}

	// One tick rounds the chance down to zero.
	w.applyGradualTileEffects(&p.Actor, 1)

	if len(p.Pack) != 1 {
		t.Fatalf("expected the pack untouched, carrying %d", len(p.Pack))
	}
}

func TestWebBurnAwayMarksShoreDistanceStale(t *testing.T) {
	w, _ := newTestWorld("web-burn-stale", Deps{})
	level := w.currentLevel()
	cell := level.CellAt(5, 5)
	cell.Terrain = TerrainWeb
	cell.Burning = true
	walker := newTestMonster("walker", 100)
	w.SpawnMonster(walker, 0)

	w.applyInstantTileEffects(walker)

	if cell.Terrain != TerrainFloor {
		t.Fatalf("expected the web burned away to floor, got %s", cell.Terrain)
	}
	if !level.ShoreDistanceStale {
		t.Fatal("expected the terrain mutation to flag the shore-distance map stale")
	}

	w.PlayerTurnEnded()
	if level.ShoreDistanceStale {
		t.Fatal("expected the post-turn refresh to clear the staleness flag")
	}
}
