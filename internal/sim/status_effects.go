package sim

import (
	"context"

	loggingstatuses "gloamdelve/server/logging/statuses"
)

// StatusDecay selects how a status counter shrinks each environment tick.
type StatusDecay int

const (
	// DecayLinear decrements by 1 per environment tick.
	DecayLinear StatusDecay = iota
	// DecayPercent shrinks by Max/PercentDivisor per environment tick and
	// floors current and max to 0 together.
	DecayPercent
)

type statusEndHandler func(w *World, a *Actor)

// StatusDefinition describes one status kind's decay rule and the one-shot
// side effect fired when the counter reaches exactly 0.
type StatusDefinition struct {
	Kind           StatusKind
	Decay          StatusDecay
	PercentDivisor int
	EndMessage     string
	OnEnd          statusEndHandler
}

// statusDecayOrder fixes the per-actor decay iteration. Map order would
// shuffle gameplay RNG consumption between runs and break replays.
var statusDecayOrder = []StatusKind{
	StatusHasted,
	StatusSlowed,
	StatusLevitating,
	StatusConfused,
	StatusNauseous,
	StatusParalyzed,
	StatusEntranced,
	StatusPoisoned,
	StatusBurning,
	StatusShielded,
	StatusFireImmune,
	StatusBlastImmune,
	StatusStuck,
	StatusHallucinating,
}

func newStatusDefinitions() map[StatusKind]*StatusDefinition {
	return map[StatusKind]*StatusDefinition{
		StatusHasted: {
			Kind:       StatusHasted,
			EndMessage: "you feel yourself slow down.",
			OnEnd: func(w *World, a *Actor) {
				a.MovementSpeed = a.BaseMoveSpeed
				a.AttackSpeed = a.BaseAttackSpeed
			},
		},
		StatusSlowed: {
			Kind:       StatusSlowed,
			EndMessage: "you feel yourself speed up.",
			OnEnd: func(w *World, a *Actor) {
				a.MovementSpeed = a.BaseMoveSpeed
				a.AttackSpeed = a.BaseAttackSpeed
			},
		},
		StatusLevitating: {
			Kind:       StatusLevitating,
			EndMessage: "you float gently back to the ground.",
		},
		StatusConfused: {
			Kind:       StatusConfused,
			EndMessage: "you no longer feel disoriented.",
		},
		StatusNauseous: {
			Kind:       StatusNauseous,
			EndMessage: "your stomach settles.",
		},
		StatusParalyzed: {
			Kind:       StatusParalyzed,
			EndMessage: "you can move again.",
		},
		StatusEntranced: {
			Kind: StatusEntranced,
		},
		StatusPoisoned: {
			Kind:       StatusPoisoned,
			EndMessage: "the poison has run its course.",
		},
		StatusBurning: {
			Kind:       StatusBurning,
			EndMessage: "the flames gutter out.",
		},
		StatusShielded: {
			Kind:           StatusShielded,
			Decay:          DecayPercent,
			PercentDivisor: 20,
			EndMessage:     "your shield of force fades away.",
		},
		StatusFireImmune: {
			Kind:       StatusFireImmune,
			EndMessage: "you no longer feel fireproof.",
		},
		StatusBlastImmune: {
			Kind: StatusBlastImmune,
		},
		StatusStuck: {
			Kind:       StatusStuck,
			EndMessage: "you break free of the web.",
		},
		StatusHallucinating: {
			Kind:       StatusHallucinating,
			EndMessage: "the lurid colors fade.",
			OnEnd: func(w *World, a *Actor) {
				// Tint is purely visual; the level repaints without it.
				w.deps.Presenter.RedrawLevel()
			},
		},
	}
}

// ApplyStatus floors the counter at value and publishes the application.
// Re-applying a shorter duration never shortens an active effect.
func (w *World) ApplyStatus(a *Actor, kind StatusKind, value int) {
	if w == nil || a == nil || value <= 0 {
		return
	}
	a.RaiseStatus(kind, value)
	loggingstatuses.Applied(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(a),
		loggingstatuses.AppliedPayload{Status: string(kind), Ticks: value},
		nil,
	)
}

// decayActorStatuses runs once per environment tick for one actor, never per
// scheduler tick. An effect reaching exactly 0 fires its end-of-effect side
// effect once; the entry is removed so later ticks at 0 stay silent.
func (w *World) decayActorStatuses(a *Actor) {
	if w == nil || a == nil || len(a.Statuses) == 0 {
		return
	}
	for _, kind := range statusDecayOrder {
		st, ok := a.Statuses[kind]
		if !ok || st == nil {
			continue
		}
		def := w.statusDefs[kind]
		if def == nil {
			def = &StatusDefinition{Kind: kind}
		}

		switch def.Decay {
		case DecayPercent:
			step := st.Max / def.PercentDivisor
			if step < 1 {
				step = 1
			}
			st.Current -= step
			if st.Current <= 0 {
				st.Current = 0
				st.Max = 0
			}
		default:
			if st.Current > 0 {
				st.Current--
			}
		}

		if st.Current == 0 {
			w.endStatus(a, def)
			delete(a.Statuses, kind)
		}
	}
}

func (w *World) endStatus(a *Actor, def *StatusDefinition) {
	if def.OnEnd != nil {
		def.OnEnd(w, a)
	}
	if def.EndMessage != "" && w.narratesFor(a) {
		w.deps.Presenter.Message(def.EndMessage)
	}
	loggingstatuses.Ended(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(a),
		loggingstatuses.EndedPayload{Status: string(def.Kind)},
		nil,
	)
}

// narratesFor gates flavor text to the player and visible monsters.
func (w *World) narratesFor(a *Actor) bool {
	if w == nil || a == nil {
		return false
	}
	if a == &w.player.Actor {
		return true
	}
	return w.deps.Vision.CanSeeMonster(w, a)
}

// decayPlayerNutrition runs once per environment tick outside paralysis.
// Carrying an amulet sometimes sustains the player through a tick; the roll
// comes from the gameplay stream so replays agree on it.
func (w *World) decayPlayerNutrition() {
	p := w.player
	if p == nil || p.hasStatus(StatusParalyzed) {
		return
	}
	if p.Nutrition > 0 {
		if p.carrying(ItemCategoryAmulet) && w.randPercent(amuletSustenanceChance) {
			return
		}
		p.Nutrition--
		return
	}
	// Starving: each environment tick costs hit points until fed or dead.
	p.HP--
	w.deps.Presenter.Message("you are starving to death!")
	if p.HP <= 0 {
		w.setGameOver("you starve to death.")
	}
}

const amuletSustenanceChance = 20
