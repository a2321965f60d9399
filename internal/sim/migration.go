package sim

import (
	"context"

	loggingmigration "gloamdelve/server/logging/migration"
)

// decrementLevelEntryCountdowns is the per-turn migration scheduler. It
// runs once per completed player turn, never per tick, and only against the
// two depths adjacent to the player's.
func (w *World) decrementLevelEntryCountdowns() {
	w.relocateDriftingUniques()

	for _, depth := range []int{w.depth - 1, w.depth + 1} {
		level := w.LevelAt(depth)
		if level == nil {
			continue
		}
		roster := append([]*Actor(nil), level.Actors...)
		for _, a := range roster {
			if a == nil || a.Dying || a.Approach == ApproachNone || a.EntersLevelIn <= 0 {
				continue
			}
			if a.EntersLevelIn > 1 {
				a.EntersLevelIn--
			} else if a.EntersLevelIn == 1 {
				w.migrateActor(level, a)
			}
		}
	}
}

// migrateActor moves one actor from an adjacent depth onto the player's
// level at the matching stairway or pit exit. Exactly one migration per
// countdown expiry.
func (w *World) migrateActor(from *Level, a *Actor) {
	current := w.currentLevel()
	if current == nil {
		return
	}

	x, y := w.entryPoint(current, from.Depth, a.Approach)
	if occupant := current.ActorAt(x, y); occupant != nil {
		occupant.X, occupant.Y = w.vacantCellNear(current, x, y)
	}
	if p := w.player; p != nil && p.X == x && p.Y == y {
		// The player cannot be displaced; the migrant sidesteps instead.
		x, y = w.vacantCellNear(current, x, y)
	}
	viaPit := a.Approach == ApproachPit

	from.RemoveActor(a)
	a.X, a.Y = x, y
	a.Falling = false
	a.Preplaced = true
	a.EntersLevelIn = 0
	a.Approach = ApproachNone
	current.AddActor(a)

	loggingmigration.Migrated(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(a),
		loggingmigration.MigratedPayload{FromDepth: from.Depth, ToDepth: current.Depth, ViaPit: viaPit},
		nil,
	)

	if w.deps.Vision.CanSeeMonster(w, a) {
		w.deps.Presenter.Message("the " + a.Name + " arrives!")
	}

	if viaPit {
		damage := w.randClumped(6, 12)
		if w.deps.Combat.InflictDamage(w, nil, a, damage) {
			w.deps.Combat.KillCreature(w, a, false)
		}
	}
}

// entryPoint picks where an arriving actor appears on the current level.
func (w *World) entryPoint(current *Level, fromDepth int, approach Approach) (int, int) {
	if approach == ApproachPit {
		return current.PitExitX, current.PitExitY
	}
	if fromDepth < current.Depth {
		// Descending actors step off the up staircase.
		return current.UpStairsX, current.UpStairsY
	}
	return current.DownStairsX, current.DownStairsY
}

// relocateDriftingUniques teleports unique pursuers that have drifted more
// than one depth from the player onto the correct adjacent stairway with a
// fixed re-entry delay, overriding their generic countdown.
func (w *World) relocateDriftingUniques() {
	for _, level := range w.levels {
		if level == nil {
			continue
		}
		drift := level.Depth - w.depth
		if drift >= -1 && drift <= 1 {
			continue
		}
		roster := append([]*Actor(nil), level.Actors...)
		for _, a := range roster {
			if a == nil || a.Dying || !a.Unique {
				continue
			}
			var target *Level
			if drift > 0 {
				target = w.LevelAt(w.depth + 1)
			} else {
				target = w.LevelAt(w.depth - 1)
			}
			if target == nil {
				continue
			}
			level.RemoveActor(a)
			if drift > 0 {
				// Below the player: it waits at its level's up staircase.
				a.X, a.Y = target.nearestVacantCell(target.UpStairsX, target.UpStairsY)
				a.Approach = ApproachUpstairs
			} else {
				a.X, a.Y = target.nearestVacantCell(target.DownStairsX, target.DownStairsY)
				a.Approach = ApproachDownstairs
			}
			a.EntersLevelIn = uniqueReentryDelay
			a.Falling = false
			a.Preplaced = true
			target.AddActor(a)
		}
	}
}
