package sim

import "gloamdelve/server/internal/journal"

// AI decides one actor's turn. The implementation may move or attack, may
// kill the actor or remove it from its list, and must either leave
// TicksUntilTurn meaningful or let the scheduler default it to MovementSpeed.
type AI interface {
	TakeTurn(w *World, a *Actor)
}

// Combat resolves damage and death. Death is detected solely through
// InflictDamage's return value.
type Combat interface {
	InflictDamage(w *World, attacker, defender *Actor, amount int) bool
	KillCreature(w *World, a *Actor, administrative bool)
}

// Environment advances ambient propagation and spawns dungeon features.
type Environment interface {
	UpdateEnvironment(w *World)
	SpawnDungeonFeature(w *World, x, y int, feature FeatureKind)
	SpawnWanderingMonster(w *World)
}

// Vision answers line-of-sight queries and refreshes the field of view.
type Vision interface {
	UpdateVision(w *World, refresh bool)
	CanSeeMonster(w *World, a *Actor) bool
	CanDirectlySeeMonster(w *World, a *Actor) bool
}

// HUDSnapshot is the between-turns summary pushed to the presentation layer.
type HUDSnapshot struct {
	Depth     int    `json:"depth"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"maxHp"`
	Nutrition int    `json:"nutrition"`
	Turn      uint64 `json:"turn"`
}

// Presenter is the one-way presentation surface. Calls are fire-and-forget;
// Pause reports an advisory interruption flag this core observes but never
// acts on.
type Presenter interface {
	Message(text string)
	CombatMessage(text string)
	FlushCombatText()
	RefreshHUD(snapshot HUDSnapshot)
	RedrawLevel()
	Flare(flare Flare)
	Pause(ticks int) bool
}

// StairDirection tells the loader which way the player arrived.
type StairDirection int

const (
	StairsDescending StairDirection = iota
	StairsAscending
	StairsFalling
)

// LevelLoader synchronously loads or generates a depth before fall and
// stair processing resumes.
type LevelLoader interface {
	StartLevel(w *World, depth int, direction StairDirection)
}

// Replay hosts the desync detector. ConsistencyCheck is a no-op in live
// play and must be invoked at the same point every completed turn.
type Replay interface {
	ConsistencyCheck(w *World, rec journal.TurnRecord)
}

// Deps bundles the external collaborators. Zero-value fields are replaced
// with no-op implementations so the engine runs headless in tests.
type Deps struct {
	AI          AI
	Combat      Combat
	Environment Environment
	Vision      Vision
	Presenter   Presenter
	Levels      LevelLoader
	Replay      Replay
}

func (d Deps) withDefaults() Deps {
	if d.AI == nil {
		d.AI = nopAI{}
	}
	if d.Combat == nil {
		d.Combat = rawCombat{}
	}
	if d.Environment == nil {
		d.Environment = nopEnvironment{}
	}
	if d.Vision == nil {
		d.Vision = nopVision{}
	}
	if d.Presenter == nil {
		d.Presenter = NopPresenter{}
	}
	if d.Levels == nil {
		d.Levels = nopLevels{}
	}
	if d.Replay == nil {
		d.Replay = nopReplay{}
	}
	return d
}

type nopAI struct{}

func (nopAI) TakeTurn(*World, *Actor) {}

// rawCombat applies unmodified damage. Real combat formulas live outside
// this core; the default keeps headless worlds honest about death.
type rawCombat struct{}

func (rawCombat) InflictDamage(w *World, attacker, defender *Actor, amount int) bool {
	if defender == nil || amount <= 0 {
		return false
	}
	defender.HP -= amount
	return defender.HP <= 0
}

func (rawCombat) KillCreature(w *World, a *Actor, administrative bool) {
	if a == nil {
		return
	}
	a.Dying = true
	a.HP = 0
}

type nopEnvironment struct{}

func (nopEnvironment) UpdateEnvironment(*World)                          {}
func (nopEnvironment) SpawnDungeonFeature(*World, int, int, FeatureKind) {}
func (nopEnvironment) SpawnWanderingMonster(*World)                      {}

type nopVision struct{}

func (nopVision) UpdateVision(*World, bool)                 {}
func (nopVision) CanSeeMonster(*World, *Actor) bool         { return true }
func (nopVision) CanDirectlySeeMonster(*World, *Actor) bool { return true }

// NopPresenter discards all presentation calls.
type NopPresenter struct{}

func (NopPresenter) Message(string)         {}
func (NopPresenter) CombatMessage(string)   {}
func (NopPresenter) FlushCombatText()       {}
func (NopPresenter) RefreshHUD(HUDSnapshot) {}
func (NopPresenter) RedrawLevel()           {}
func (NopPresenter) Flare(Flare)            {}
func (NopPresenter) Pause(int) bool         { return false }

type nopLevels struct{}

func (nopLevels) StartLevel(w *World, depth int, direction StairDirection) {
	if w == nil {
		return
	}
	if level := w.LevelAt(depth); level != nil {
		level.Visited = true
	}
}

type nopReplay struct{}

func (nopReplay) ConsistencyCheck(*World, journal.TurnRecord) {}
