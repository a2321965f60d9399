package sim

import (
	"context"

	logginghazards "gloamdelve/server/logging/hazards"
)

const (
	webStickTicks     = 3
	gasNauseaFloor    = 12
	gasConfusionFloor = 10
	gasParalysisFloor = 8
	poisonDoseCeiling = 5
)

// ActorEnteredTile is the location-change entry point for the movement
// collaborator. Instant effects are also re-evaluated once per environment
// tick for every live actor.
func (w *World) ActorEnteredTile(a *Actor) {
	if w == nil || a == nil {
		return
	}
	w.applyInstantTileEffects(a)
}

// applyInstantTileEffects walks the fixed hazard priority chain. Every
// death or terminal case returns immediately, skipping later checks; the
// chain order itself is part of the replay contract.
func (w *World) applyInstantTileEffects(a *Actor) turnOutcome {
	if w == nil || a == nil || a.Dying {
		return outcomeContinue
	}
	level := w.LevelAt(a.Depth)
	if level == nil {
		return outcomeContinue
	}
	cell := level.CellAt(a.X, a.Y)
	if cell == nil {
		return outcomeContinue
	}
	isPlayer := a == &w.player.Actor

	// Traversal proves the tile trap-free.
	cell.TrapFree = true

	if cell.hasSecret() && isPlayer {
		w.discoverSecret(level, cell)
	}

	a.Submerged = cell.Terrain == TerrainDeepWater && !a.hasStatus(StatusLevitating)

	if a.Seized && !cell.watery() && cell.Terrain != TerrainWeb {
		a.Seized = false
	}

	if cell.Terrain == TerrainChasm && !a.hasStatus(StatusLevitating) && !a.Seized && !a.Preplaced {
		a.Falling = true
		if isPlayer {
			// The scheduler owns the player's descent; stop here.
			return outcomeTerminal
		}
	}

	if cell.Terrain == TerrainLava && !a.hasStatus(StatusLevitating) && !a.hasStatus(StatusFireImmune) {
		if isPlayer {
			w.setGameOver("you are consumed by lava.")
			return outcomeFatal
		}
		w.deps.Combat.KillCreature(w, a, false)
		return outcomeTerminal
	}

	if a.hasStatus(StatusBurning) && (cell.watery() || cell.submergible()) {
		delete(a.Statuses, StatusBurning)
		if w.narratesFor(a) {
			w.deps.Presenter.Message("the water douses the flames.")
		}
	}

	if cell.hasSecret() && w.deps.Vision.CanDirectlySeeMonster(w, a) {
		w.discoverSecret(level, cell)
	}

	if cell.Terrain == TerrainPressurePlate && !cell.PlateDepressed {
		// Fires exactly once per depression; the plate re-arms when vacated.
		cell.PlateDepressed = true
		w.deps.Environment.SpawnDungeonFeature(w, a.X, a.Y, cell.PlateFeature)
	}

	// Generic tile-state promotions.
	if cell.Terrain == TerrainWeb && cell.Burning {
		cell.Terrain = TerrainFloor
		cell.Burning = false
		level.ShoreDistanceStale = true
	}

	if cell.Terrain == TerrainWeb && !a.hasStatus(StatusLevitating) {
		a.RaiseStatus(StatusStuck, webStickTicks)
	}

	if cell.Gas == GasExplosive && cell.Burning && !a.hasStatus(StatusBlastImmune) {
		damage := w.randRange(15, 20)
		if half := a.MaxHP / 2; half > damage {
			damage = half
		}
		a.SetStatus(StatusBlastImmune, explosionImmunityTicks, explosionImmunityTicks)
		w.publishHazard(a, "explosion", damage)
		if w.deps.Combat.InflictDamage(w, nil, a, damage) {
			if isPlayer {
				w.setGameOver("you are blown apart.")
				return outcomeFatal
			}
			w.deps.Combat.KillCreature(w, a, false)
			return outcomeTerminal
		}
	}

	switch cell.Gas {
	case GasCaustic:
		w.exposeToGas(a, StatusNauseous, gasNauseaFloor, "a cloud of caustic gas makes you retch.")
	case GasConfusion:
		w.exposeToGas(a, StatusConfused, gasConfusionFloor, "the iridescent vapors scramble your senses.")
	case GasParalysis:
		w.exposeToGas(a, StatusParalyzed, gasParalysisFloor, "paralytic spores lock your muscles.")
	}

	if cell.Terrain == TerrainPoisonVines {
		w.addPoison(a, poisonDoseCeiling)
	}

	if cell.Burning && !a.hasStatus(StatusFireImmune) && !a.Submerged {
		a.RaiseStatus(StatusBurning, w.randRange(3, 5))
	}
	if cell.Flammable && a.hasStatus(StatusBurning) {
		cell.Burning = true
	}

	return outcomeContinue
}

// exposeToGas sets the status to a flat floor and narrates only the first
// exposure of an engagement.
func (w *World) exposeToGas(a *Actor, kind StatusKind, floor int, text string) {
	a.RaiseStatus(kind, floor)
	if a.notedGasExposure == nil {
		a.notedGasExposure = make(map[StatusKind]bool)
	}
	if !a.notedGasExposure[kind] {
		a.notedGasExposure[kind] = true
		if w.narratesFor(a) {
			w.deps.Presenter.Message(text)
		}
	}
}

// addPoison tops the dose up toward the ceiling rather than stacking
// unboundedly: a fully poisoned actor gains nothing from re-exposure.
func (w *World) addPoison(a *Actor, ceiling int) {
	current := a.Status(StatusPoisoned)
	dose := ceiling - current
	if dose <= 0 {
		return
	}
	a.SetStatus(StatusPoisoned, current+dose, current+dose)
	if w.narratesFor(a) && current == 0 {
		w.deps.Presenter.Message("venomous thorns break your skin.")
	}
}

func (w *World) discoverSecret(level *Level, cell *Cell) {
	if cell == nil || !cell.hasSecret() {
		return
	}
	cell.Terrain = cell.Secret
	cell.Secret = ""
	cell.Discovered = true
	if level != nil {
		// Promotion may have changed what counts as shoreline.
		level.ShoreDistanceStale = true
	}
	w.discoveryCredits++
	w.deps.Presenter.Message("you found a secret!")
}

// applyGradualTileEffects scales terrain damage and healing linearly with
// the elapsed tick budget.
func (w *World) applyGradualTileEffects(a *Actor, ticks int) turnOutcome {
	if w == nil || a == nil || a.Dying || ticks <= 0 {
		return outcomeContinue
	}
	level := w.LevelAt(a.Depth)
	if level == nil {
		return outcomeContinue
	}
	cell := level.CellAt(a.X, a.Y)
	if cell == nil {
		return outcomeContinue
	}
	isPlayer := a == &w.player.Actor

	switch cell.Terrain {
	case TerrainAcidPool:
		damage := gradualMagnitude(a.MaxHP, ticks)
		w.publishHazard(a, "acid", damage)
		if w.deps.Combat.InflictDamage(w, nil, a, damage) {
			if isPlayer {
				w.setGameOver("you dissolve in the acid.")
				return outcomeFatal
			}
			w.deps.Combat.KillCreature(w, a, false)
			return outcomeTerminal
		}
	case TerrainHealingSpring:
		heal := gradualMagnitude(a.MaxHP, ticks)
		a.HP += heal
		if a.HP > a.MaxHP {
			a.HP = a.MaxHP
		}
	case TerrainDeepWater:
		if isPlayer {
			w.maybeDropItemInWater(ticks)
		}
	}
	return outcomeContinue
}

// gradualMagnitude is max(1, maxHP/15 * ticks/100).
func gradualMagnitude(maxHP, ticks int) int {
	magnitude := maxHP / 15 * ticks / 100
	if magnitude < 1 {
		magnitude = 1
	}
	return magnitude
}

// maybeDropItemInWater loses a random pack item with a probability scaled
// to submerged time rather than a flat per-call chance.
func (w *World) maybeDropItemInWater(ticks int) {
	p := w.player
	if p == nil || len(p.Pack) == 0 {
		return
	}
	chance := ticks * 50 / 100
	if !w.randPercent(chance) {
		return
	}
	idx := w.randRange(0, len(p.Pack)-1)
	lost := p.Pack[idx]
	p.Pack = append(p.Pack[:idx], p.Pack[idx+1:]...)
	if lost != nil {
		w.deps.Presenter.Message("your " + lost.Name + " is swept away by the current!")
	}
}

func (w *World) publishHazard(a *Actor, hazard string, amount int) {
	logginghazards.Damaged(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(a),
		logginghazards.DamagedPayload{Hazard: hazard, Amount: amount},
		nil,
	)
}

// rearmPressurePlates resets depressed plates that no longer bear weight.
func (w *World) rearmPressurePlates(level *Level) {
	if level == nil {
		return
	}
	for x := 0; x < level.Width; x++ {
		for y := 0; y < level.Height; y++ {
			cell := &level.Cells[x][y]
			if cell.Terrain != TerrainPressurePlate || !cell.PlateDepressed {
				continue
			}
			if level.ActorAt(x, y) != nil {
				continue
			}
			if w.player.Depth == level.Depth && w.player.X == x && w.player.Y == y {
				continue
			}
			cell.PlateDepressed = false
		}
	}
}
