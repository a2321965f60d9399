package sim

// tickSnapshot is the pre-tick roster used for eligibility iteration.
// Actors spawned after the snapshot wait for the next tick; actors that die
// during the tick stay in the slice and are skipped by the scheduler.
type tickSnapshot struct {
	actors []*Actor
	delta  int
}

// advanceToNextEvent finds the smallest pending delay across the current
// depth's actors, the player, and the environment countdown, then advances
// every clock by exactly that amount in one atomic pass.
func (w *World) advanceToNextEvent() tickSnapshot {
	level := w.currentLevel()

	snap := tickSnapshot{}
	if level != nil && len(level.Actors) > 0 {
		snap.actors = append([]*Actor(nil), level.Actors...)
	}

	delta := w.player.TicksUntilTurn
	if w.ticksTillUpdateEnvironment < delta {
		delta = w.ticksTillUpdateEnvironment
	}
	for _, a := range snap.actors {
		if a == nil || a.Dying {
			continue
		}
		if a.TicksUntilTurn < delta {
			delta = a.TicksUntilTurn
		}
	}
	if delta < 0 {
		delta = 0
	}
	snap.delta = delta

	w.player.TicksUntilTurn -= delta
	w.ticksTillUpdateEnvironment -= delta
	for _, a := range snap.actors {
		if a == nil || a.Dying {
			continue
		}
		a.TicksUntilTurn -= delta
	}
	return snap
}
