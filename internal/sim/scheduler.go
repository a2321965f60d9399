package sim

import (
	"context"

	"gloamdelve/server/internal/journal"
	logginghazards "gloamdelve/server/logging/hazards"
	loggingturns "gloamdelve/server/logging/turns"
)

const (
	passiveSearchThreshold = 30
	terrainShuffleInterval = 20
	hazardWarningMargin    = 2
	runicHintChance        = 5
	flarePauseTicks        = 20
)

// PlayerTurnEnded advances the world by one player turn. It is the only
// entry point the outer game loop calls into this package per turn.
//
// Any fatal or terminal-for-turn condition returns early with post-turn
// bookkeeping deliberately incomplete; callers must not assume the
// post-turn side effects ran.
func (w *World) PlayerTurnEnded() {
	if w == nil || w.gameOver {
		return
	}
	w.betweenTurns = false

	w.payDiscoveryExperience()
	w.resetSearchEligibility()
	w.snapshotCreatureHP()

	// An already-falling player forfeits the whole pass to the descent.
	if w.player.Falling {
		w.handlePlayerFalling()
		return
	}

	// Faster monsters may already be airborne, so the sweep runs before
	// any clocks move.
	w.monsterFallSweep()

	for {
		if w.runSchedulerPass() != outcomeContinue {
			return
		}
		if !w.player.hasStatus(StatusParalyzed) {
			break
		}
	}

	w.finishTurn()
}

// runSchedulerPass is one full pass of the outer loop: the player's entire
// tick budget, including any environment ticks that elapse inside it.
func (w *World) runSchedulerPass() turnOutcome {
	p := w.player

	w.advanceTurnCounters()

	if out := w.resolveNutrition(); out != outcomeContinue {
		return out
	}

	w.passiveSearch()
	w.releaseLeaderlessFollowers()

	if out := w.resolveDamageOverTurn(); out != outcomeContinue {
		return out
	}

	if p.TicksUntilTurn == 0 {
		p.TicksUntilTurn = p.MovementSpeed
	}

	if out := w.applyGradualTileEffects(&p.Actor, p.TicksUntilTurn); out != outcomeContinue {
		return out
	}

	for p.TicksUntilTurn > 0 {
		snap := w.advanceToNextEvent()

		w.maybeEnvironmentTick(snap)
		if w.gameOver {
			return outcomeFatal
		}

		// A clock tie at the budget boundary goes to the player: monsters
		// reaching 0 on this exact tick wait for the next pass.
		if p.TicksUntilTurn <= 0 {
			break
		}

		if out := w.runActorTurns(snap); out != outcomeContinue {
			return out
		}
	}

	return w.postTickBookkeeping()
}

// runActorTurns grants a turn to every eligible non-player actor, in the
// pre-tick snapshot order. Actors removed during the tick are skipped;
// actors spawned during it are absent from the snapshot entirely.
func (w *World) runActorTurns(snap tickSnapshot) turnOutcome {
	level := w.currentLevel()
	for _, a := range snap.actors {
		if a == nil || a.Dying || !level.HasActor(a) {
			continue
		}
		if a.TicksUntilTurn > 0 {
			continue
		}
		if a.turnLocked() {
			a.TicksUntilTurn = a.MovementSpeed
			continue
		}
		a.Preplaced = false

		w.deps.AI.TakeTurn(w, a)
		if w.gameOver {
			return outcomeFatal
		}
		if a.Dying || !level.HasActor(a) {
			continue
		}
		if a.TicksUntilTurn <= 0 {
			a.TicksUntilTurn = a.MovementSpeed
		}
		if out := w.applyGradualTileEffects(a, a.TicksUntilTurn); out == outcomeFatal {
			return out
		}
	}
	return outcomeContinue
}

// maybeEnvironmentTick runs the fixed environment-tick sequence when the
// countdown has elapsed. Calling it early is a no-op, so overshooting
// schedulers cannot double-fire world maintenance.
func (w *World) maybeEnvironmentTick(snap tickSnapshot) bool {
	if w.ticksTillUpdateEnvironment > 0 {
		return false
	}
	// Roll over by addition: overrun debt shortens the next window.
	w.ticksTillUpdateEnvironment += environmentTickInterval

	level := w.currentLevel()

	for _, a := range snap.actors {
		if a == nil || a.Dying || !level.HasActor(a) {
			continue
		}
		w.applyInstantTileEffects(a)
		if w.gameOver {
			return true
		}
	}
	for _, a := range snap.actors {
		if a == nil || a.Dying || !level.HasActor(a) {
			continue
		}
		w.decayActorStatuses(a)
	}

	w.deps.Environment.UpdateEnvironment(w)
	w.rearmPressurePlates(level)

	w.decayActorStatuses(&w.player.Actor)
	w.decayPlayerNutrition()
	if w.gameOver {
		return true
	}

	w.applyInstantTileEffects(&w.player.Actor)
	return true
}

// advanceTurnCounters steps the turn numbers, scent decay, and the monster
// spawn fuse. The player turn number freezes under paralysis; absolute time
// never does.
func (w *World) advanceTurnCounters() {
	w.absoluteTurnNumber++
	if !w.player.hasStatus(StatusParalyzed) {
		w.playerTurnNumber++
	}

	w.scentTurnNumber += scentStepPerTurn
	if w.scentTurnNumber > scentRescaleCeiling {
		w.scentTurnNumber /= 2
	}

	w.monsterSpawnFuse--
	if w.monsterSpawnFuse <= 0 {
		w.deps.Environment.SpawnWanderingMonster(w)
		w.monsterSpawnFuse = w.randRange(monsterSpawnFuseMin, monsterSpawnFuseMax)
	}
}

// resolveNutrition handles per-turn regeneration and confirms starvation
// deaths flagged during environment ticks.
func (w *World) resolveNutrition() turnOutcome {
	p := w.player
	if p.Nutrition <= 0 && p.HP <= 0 {
		w.setGameOver("you starve to death.")
		return outcomeFatal
	}
	if p.Nutrition > 0 && p.HP < p.MaxHP && w.playerTurnNumber%regenTurnInterval == 0 {
		p.HP++
	}
	return outcomeContinue
}

// passiveSearch gives observant players a free chance to spot adjacent
// secrets, at most once per tile per turn.
func (w *World) passiveSearch() {
	p := w.player
	if p.Awareness < passiveSearchThreshold {
		return
	}
	cell := w.playerCell()
	if cell == nil || cell.SearchedFromHere {
		return
	}
	cell.SearchedFromHere = true

	level := w.currentLevel()
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			adjacent := level.CellAt(p.X+dx, p.Y+dy)
			if adjacent.hasSecret() && w.randPercent(p.Awareness) {
				w.discoverSecret(level, adjacent)
			}
		}
	}
}

// releaseLeaderlessFollowers unbinds actors whose leader has died or left.
func (w *World) releaseLeaderlessFollowers() {
	level := w.currentLevel()
	if level == nil {
		return
	}
	for _, a := range level.Actors {
		if a == nil || a.LeaderID == "" {
			continue
		}
		leader := w.findActor(level, a.LeaderID)
		if leader == nil || leader.Dying {
			a.LeaderID = ""
			a.Captive = false
		}
	}
}

func (w *World) findActor(level *Level, id string) *Actor {
	if id == w.player.ID {
		return &w.player.Actor
	}
	for _, a := range level.Actors {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}

// resolveDamageOverTurn applies the player's burning and poison damage for
// the elapsing turn.
func (w *World) resolveDamageOverTurn() turnOutcome {
	p := w.player
	if p.hasStatus(StatusBurning) {
		p.HP -= w.randRange(1, 3)
		if p.HP <= 0 {
			w.setGameOver("you burn to death.")
			return outcomeFatal
		}
	}
	if p.hasStatus(StatusPoisoned) {
		p.HP--
		if p.HP <= 0 {
			w.setGameOver("the poison overwhelms you.")
			return outcomeFatal
		}
	}
	return outcomeContinue
}

// postTickBookkeeping closes out one pass: perception refresh, buffered
// narration, cosmetic work, and the player's own tile hazards.
func (w *World) postTickBookkeeping() turnOutcome {
	p := w.player

	w.deps.Vision.UpdateVision(w, false)
	w.refreshStealthRange()
	w.emitDisturbanceMessages()
	w.deps.Presenter.FlushCombatText()
	w.maybeShuffleTerrainColors()
	w.deps.Presenter.RefreshHUD(HUDSnapshot{
		Depth:     w.depth,
		HP:        p.HP,
		MaxHP:     p.MaxHP,
		Nutrition: p.Nutrition,
		Turn:      w.playerTurnNumber,
	})

	// Re-apply instant tile effects: the pass may have ended with the
	// player standing somewhere newly lethal.
	switch w.applyInstantTileEffects(&p.Actor) {
	case outcomeFatal:
		return outcomeFatal
	case outcomeTerminal:
		return outcomeTerminal
	}
	if p.Falling {
		return outcomeTerminal
	}

	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return outcomeContinue
}

// refreshStealthRange rederives how far the player's noise carries.
// Resting halves it; heavy armor is the armor collaborator's problem.
func (w *World) refreshStealthRange() {
	p := w.player
	rangeTiles := 7
	if p.JustRested {
		rangeTiles = 3
	}
	p.StealthRange = rangeTiles
}

// emitDisturbanceMessages announces monsters that became visible during the
// pass and surfaces the one-shot runic hints they trigger.
func (w *World) emitDisturbanceMessages() {
	level := w.currentLevel()
	if level == nil {
		return
	}
	for _, a := range level.Actors {
		if a == nil || a.Dying {
			continue
		}
		visible := w.deps.Vision.CanSeeMonster(w, a)
		wasVisible := w.visibleLastTurn[a.ID]
		w.visibleLastTurn[a.ID] = visible
		if !visible || wasVisible {
			continue
		}
		w.deps.Presenter.Message("you see the " + a.Name + ".")
		w.player.Disturbed = true
		w.emitRunicHint(w.player.Weapon, "your weapon glimmers faintly.")
		w.emitRunicHint(w.player.Armor, "your armor hums for a moment.")
	}
}

func (w *World) emitRunicHint(item *Item, text string) {
	if item == nil || !item.Runic || item.RunicKnown {
		return
	}
	if w.runicHintShown[item.ID] {
		return
	}
	if !w.randPercent(runicHintChance) {
		return
	}
	w.runicHintShown[item.ID] = true
	w.deps.Presenter.Message(text)
}

// maybeShuffleTerrainColors reshuffles cosmetic terrain tints every few
// turns. The draws come from the cosmetic stream: replays must not be
// perturbed by eye candy.
func (w *World) maybeShuffleTerrainColors() {
	if w.playerTurnNumber == 0 || w.playerTurnNumber%terrainShuffleInterval != 0 {
		return
	}
	// Playback runs headless; the cosmetic stream is isolated from gameplay
	// draws, so skipping it cannot desync a replay.
	if w.cfg.Replaying {
		return
	}
	w.pushCosmeticRNG()
	w.randRange(0, 255)
	w.popCosmeticRNG()
	w.deps.Presenter.RedrawLevel()
}

// finishTurn is the post-turn phase. It only runs on a non-aborted,
// non-paralyzed completion.
func (w *World) finishTurn() {
	p := w.player
	p.JustRested = false
	p.JustSearched = false

	if level := w.currentLevel(); level != nil && level.ShoreDistanceStale {
		level.ShoreDistanceStale = false
	}

	w.evaluateHazardWarnings()
	w.purgeDeadActors()
	w.decrementLevelEntryCountdowns()

	w.betweenTurns = true

	rec := w.turnRecord()
	w.journal.Record(rec)
	w.deps.Replay.ConsistencyCheck(w, rec)

	loggingturns.Completed(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(&p.Actor),
		loggingturns.CompletedPayload{
			PlayerTurn: w.playerTurnNumber,
			Depth:      w.depth,
			HP:         p.HP,
			RNGDraws:   w.RNGDraws(),
		},
		nil,
	)

	w.flushHealthAlerts()
	w.flushFlares()
}

func (w *World) turnRecord() journal.TurnRecord {
	p := w.player
	rec := journal.TurnRecord{
		PlayerTurn:   w.playerTurnNumber,
		AbsoluteTurn: w.absoluteTurnNumber,
		Depth:        w.depth,
		RNGDraws:     w.RNGDraws(),
		PlayerHP:     p.HP,
		PlayerX:      p.X,
		PlayerY:      p.Y,
	}
	rec.Checksum = rec.ComputeChecksum()
	return rec
}

// payDiscoveryExperience credits allies for secrets found last turn.
func (w *World) payDiscoveryExperience() {
	if w.discoveryCredits == 0 {
		return
	}
	level := w.currentLevel()
	if level != nil {
		for _, a := range level.Actors {
			if a != nil && !a.Dying && a.LeaderID == w.player.ID {
				a.XP += w.discoveryCredits
			}
		}
	}
	w.discoveryCredits = 0
}

// resetSearchEligibility re-arms the passive search for every tile.
func (w *World) resetSearchEligibility() {
	level := w.currentLevel()
	if level == nil {
		return
	}
	for x := 0; x < level.Width; x++ {
		for y := 0; y < level.Height; y++ {
			level.Cells[x][y].SearchedFromHere = false
		}
	}
}

// snapshotCreatureHP records pre-turn health so damage alerts can be
// deferred to the end of the turn.
func (w *World) snapshotCreatureHP() {
	level := w.currentLevel()
	if w.preTurnHP == nil {
		w.preTurnHP = make(map[string]int)
	} else {
		clear(w.preTurnHP)
	}
	if level == nil {
		return
	}
	for _, a := range level.Actors {
		if a != nil && !a.Dying {
			w.preTurnHP[a.ID] = a.HP
		}
	}
}

// flushHealthAlerts emits the deferred damage messages for monsters hurt
// during the turn that are still visible.
func (w *World) flushHealthAlerts() {
	level := w.currentLevel()
	if level == nil {
		return
	}
	for _, a := range level.Actors {
		if a == nil || a.Dying {
			continue
		}
		before, ok := w.preTurnHP[a.ID]
		if !ok || a.HP >= before {
			continue
		}
		if w.deps.Vision.CanSeeMonster(w, a) {
			w.deps.Presenter.CombatMessage("the " + a.Name + " is wounded.")
		}
	}
	clear(w.preTurnHP)
}

func (w *World) flushFlares() {
	if len(w.pendingFlares) == 0 {
		return
	}
	for _, flare := range w.pendingFlares {
		w.deps.Presenter.Flare(flare)
	}
	w.pendingFlares = w.pendingFlares[:0]
	// Pacing is advisory; an interrupted pause never changes outcomes.
	w.deps.Presenter.Pause(flarePauseTicks)
}

// evaluateHazardWarnings latches the point-of-no-return warning: a
// levitation or fire-immunity clock about to expire over lethal terrain,
// with not enough time left to reach safety. One warning per engagement;
// the latch resets when the hazard clears.
func (w *World) evaluateHazardWarnings() {
	p := w.player
	cell := w.playerCell()
	if cell == nil {
		w.hazardWarningLatched = false
		return
	}

	var remaining int
	var hazard string
	switch cell.Terrain {
	case TerrainLava:
		if p.hasStatus(StatusFireImmune) {
			remaining = p.Status(StatusFireImmune)
			hazard = "the lava beneath you"
		} else if p.hasStatus(StatusLevitating) {
			remaining = p.Status(StatusLevitating)
			hazard = "the lava beneath you"
		}
	case TerrainChasm, TerrainDeepWater:
		if p.hasStatus(StatusLevitating) {
			remaining = p.Status(StatusLevitating)
			hazard = "the drop beneath you"
		}
	}
	if remaining <= 0 {
		w.hazardWarningLatched = false
		return
	}

	travel := w.estimatedTravelTicksToSafety()
	if remaining > travel+hazardWarningMargin {
		return
	}
	if w.hazardWarningLatched {
		return
	}
	w.hazardWarningLatched = true
	w.deps.Presenter.Message("you won't clear " + hazard + " before your magic gives out!")
	logginghazards.Warned(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(&p.Actor),
		logginghazards.WarnedPayload{Hazard: hazard, Remaining: remaining, Travel: travel},
		nil,
	)
	w.queueFlare(Flare{X: p.X, Y: p.Y, Depth: w.depth, Kind: FlareHazard})
}

// estimatedTravelTicksToSafety is a breadth-first distance, in environment
// ticks, from the player to the nearest cell that is not lethal without
// magical support.
func (w *World) estimatedTravelTicksToSafety() int {
	level := w.currentLevel()
	p := w.player
	if level == nil {
		return 0
	}
	type point struct{ x, y, dist int }
	visited := make(map[[2]int]bool)
	queue := []point{{p.X, p.Y, 0}}
	visited[[2]int{p.X, p.Y}] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cell := level.CellAt(cur.x, cur.y)
		if cell == nil {
			continue
		}
		switch cell.Terrain {
		case TerrainLava, TerrainChasm, TerrainDeepWater:
			// Still over the hazard; keep walking.
		default:
			return cur.dist
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				next := [2]int{cur.x + dx, cur.y + dy}
				if visited[next] {
					continue
				}
				if c := level.CellAt(next[0], next[1]); c == nil || c.Terrain == TerrainWall {
					continue
				}
				visited[next] = true
				queue = append(queue, point{next[0], next[1], cur.dist + 1})
			}
		}
	}
	return level.Width * level.Height
}
