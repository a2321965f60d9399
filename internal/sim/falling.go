package sim

import (
	"context"

	loggingmigration "gloamdelve/server/logging/migration"
)

// fallsNow is the monster fall predicate: airborne actors stay put, as do
// seized, preplaced, and off-chasm actors.
func (w *World) fallsNow(a *Actor) bool {
	if a == nil || a.Dying {
		return false
	}
	if a.hasStatus(StatusLevitating) || a.Seized || a.Preplaced {
		return false
	}
	level := w.LevelAt(a.Depth)
	if level == nil {
		return false
	}
	cell := level.CellAt(a.X, a.Y)
	return cell != nil && cell.Terrain == TerrainChasm
}

// monsterFallSweep flags and resolves every monster fall on the current
// depth. It runs unconditionally at the start of every scheduler pass:
// faster monsters may already be airborne before the player's turn ends.
func (w *World) monsterFallSweep() {
	level := w.currentLevel()
	if level == nil || len(level.Actors) == 0 {
		return
	}
	// The sweep mutates the list, so it iterates a copy.
	roster := append([]*Actor(nil), level.Actors...)
	for _, a := range roster {
		if a == nil || a.Dying {
			continue
		}
		if !a.Falling && !w.fallsNow(a) {
			continue
		}
		a.Falling = true
		if w.deps.Vision.CanSeeMonster(w, a) {
			w.deps.Presenter.Message("the " + a.Name + " plunges out of sight!")
		}

		if a.ActivationOnly {
			// Rooted creatures cannot survive the drop.
			w.deps.Combat.KillCreature(w, a, false)
			continue
		}

		damage := w.randClumped(6, 12)
		if w.deps.Combat.InflictDamage(w, nil, a, damage) {
			w.deps.Combat.KillCreature(w, a, false)
			continue
		}

		target := w.LevelAt(a.Depth + 1)
		if target == nil {
			// Nowhere further down; the survivor stays wedged here.
			a.Falling = false
			continue
		}
		a.IsLeader = false
		a.Falling = false
		level.RemoveActor(a)
		a.X, a.Y = target.nearestVacantCell(target.PitExitX, target.PitExitY)
		a.Preplaced = true
		target.AddActor(a)

		loggingmigration.Fell(
			context.Background(),
			w.publisher,
			w.absoluteTurnNumber,
			w.entityRef(a),
			loggingmigration.FellPayload{FromDepth: level.Depth, ToDepth: target.Depth, Damage: damage},
			nil,
		)
	}
}

// handlePlayerFalling resolves the player's descent. It replaces the whole
// scheduler pass for the turn: the turn scheduler short-circuits here when
// the falling flag is already set.
func (w *World) handlePlayerFalling() {
	p := w.player
	if p == nil {
		return
	}
	// The tile that gave way reveals itself only if the player can see it.
	if cell := w.playerCell(); cell.hasSecret() && w.deps.Vision.CanDirectlySeeMonster(w, &p.Actor) {
		w.discoverSecret(w.currentLevel(), cell)
	}

	// Monsters drop first so they land ahead of the player.
	w.monsterFallSweep()

	p.Disturbed = true
	p.Falling = false

	if w.depth >= w.deepestDepth() {
		// The dungeon has no further down. The floor spits the player out
		// somewhere safe instead.
		w.teleportPlayerSafely()
		w.queueFlare(Flare{X: p.X, Y: p.Y, Depth: w.depth, Kind: FlareTeleport})
		return
	}

	fromDepth := w.depth
	w.depth++
	p.Depth = w.depth
	w.deps.Levels.StartLevel(w, w.depth, StairsFalling)

	landing := w.currentLevel()
	if landing != nil {
		p.X, p.Y = landing.nearestVacantCell(landing.PitExitX, landing.PitExitY)
	}

	damage := w.playerFallDamage()
	if damage > 0 {
		w.deps.Presenter.Message("you plummet downward into the hole!")
		p.HP -= damage
		if p.HP <= 0 {
			w.queueFlare(Flare{X: p.X, Y: p.Y, Depth: w.depth, Kind: FlareFallLanding})
			w.setGameOver("you fall to your death.")
			return
		}
	}

	loggingmigration.Fell(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(&p.Actor),
		loggingmigration.FellPayload{FromDepth: fromDepth, ToDepth: w.depth, Damage: damage},
		nil,
	)
	w.queueFlare(Flare{X: p.X, Y: p.Y, Depth: w.depth, Kind: FlareFallLanding})
}

// playerFallDamage rolls clumped falling damage, waived entirely in deep
// water and halved on other submergible terrain.
func (w *World) playerFallDamage() int {
	cell := w.playerCell()
	if cell != nil && cell.Terrain == TerrainDeepWater {
		return 0
	}
	damage := w.randClumped(6, 12)
	if cell.submergible() {
		damage /= 2
	}
	return damage
}

// teleportPlayerSafely relocates the player to a random passable vacant
// cell on the current level. The destination is gameplay-relevant, so the
// roll stays on the gameplay stream.
func (w *World) teleportPlayerSafely() {
	level := w.currentLevel()
	p := w.player
	if level == nil || p == nil {
		return
	}
	for attempt := 0; attempt < 500; attempt++ {
		x := w.randRange(0, level.Width-1)
		y := w.randRange(0, level.Height-1)
		cell := level.CellAt(x, y)
		if cell == nil || !cellPassable(cell) || cell.Terrain == TerrainDeepWater {
			continue
		}
		if level.ActorAt(x, y) != nil {
			continue
		}
		p.X, p.Y = x, y
		w.deps.Presenter.Message("the world lurches, and you find yourself somewhere else.")
		return
	}
}

func (w *World) queueFlare(flare Flare) {
	w.pendingFlares = append(w.pendingFlares, flare)
}
