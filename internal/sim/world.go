package sim

import (
	"context"
	"strings"

	"gloamdelve/server/internal/journal"
	"gloamdelve/server/logging"
	logginglifecycle "gloamdelve/server/logging/lifecycle"
)

const (
	environmentTickInterval = 100

	defaultLevelWidth  = 79
	defaultLevelHeight = 29

	defaultDepthCount = 26

	scentStepPerTurn    = 3
	scentRescaleCeiling = 1 << 29

	monsterSpawnFuseMin = 125
	monsterSpawnFuseMax = 175

	regenTurnInterval = 10

	maxDisplacementRadius = 12

	uniqueReentryDelay = 50

	explosionImmunityTicks = 5

	journalCapacity = 4096
)

const defaultWorldSeed = "gloamdelve"

// Config captures the knobs used when constructing a world.
type Config struct {
	Seed        string `json:"seed"`
	DepthCount  int    `json:"depthCount"`
	LevelWidth  int    `json:"levelWidth"`
	LevelHeight int    `json:"levelHeight"`
	Replaying   bool   `json:"replaying"`
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultWorldSeed
	}
	if normalized.DepthCount <= 0 {
		normalized.DepthCount = defaultDepthCount
	}
	if normalized.LevelWidth <= 0 {
		normalized.LevelWidth = defaultLevelWidth
	}
	if normalized.LevelHeight <= 0 {
		normalized.LevelHeight = defaultLevelHeight
	}
	return normalized
}

// DefaultConfig returns the stock dungeon dimensions and seed.
func DefaultConfig() Config {
	return Config{}.normalized()
}

// World owns the authoritative simulation state for one session.
type World struct {
	cfg       Config
	deps      Deps
	publisher logging.Publisher
	journal   *journal.Journal

	player *Player
	levels []*Level
	depth  int

	playerTurnNumber   uint64
	absoluteTurnNumber uint64

	// ticksTillUpdateEnvironment rolls over by += interval so overrun debt
	// carries into the next window; it is never reset flat.
	ticksTillUpdateEnvironment int

	scentTurnNumber  int
	monsterSpawnFuse int

	gameOver     bool
	betweenTurns bool

	hazardWarningLatched bool

	statusDefs map[StatusKind]*StatusDefinition

	rand rngState

	pendingFlares []Flare
	preTurnHP     map[string]int

	discoveryCredits int
	visibleLastTurn  map[string]bool
	runicHintShown   map[string]bool
}

// NewWorld constructs a world with empty levels and the player on depth 0.
func NewWorld(cfg Config, deps Deps, publisher logging.Publisher) *World {
	normalized := cfg.normalized()
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	deps = deps.withDefaults()

	w := &World{
		cfg:        normalized,
		deps:       deps,
		publisher:  publisher,
		journal:    journal.New(journalCapacity),
		statusDefs: newStatusDefinitions(),

		preTurnHP:       make(map[string]int),
		visibleLastTurn: make(map[string]bool),
		runicHintShown:  make(map[string]bool),
	}
	w.rand = newRNGState(normalized.Seed)

	w.levels = make([]*Level, normalized.DepthCount)
	for i := range w.levels {
		w.levels[i] = NewLevel(i, normalized.LevelWidth, normalized.LevelHeight)
	}
	w.levels[0].Visited = true

	w.ticksTillUpdateEnvironment = environmentTickInterval
	w.monsterSpawnFuse = w.randRange(monsterSpawnFuseMin, monsterSpawnFuseMax)

	w.player = &Player{
		Actor: Actor{
			ID:              "player",
			Name:            "you",
			MovementSpeed:   100,
			AttackSpeed:     100,
			BaseMoveSpeed:   100,
			BaseAttackSpeed: 100,
			HP:              40,
			MaxHP:           40,
		},
		Nutrition:    2000,
		StealthRange: 7,
		Awareness:    30,
	}

	logginglifecycle.Created(
		context.Background(),
		w.publisher,
		0,
		logging.EntityRef{ID: "world", Kind: logging.EntityKindWorld},
		logginglifecycle.CreatedPayload{Seed: normalized.Seed, Depths: normalized.DepthCount},
		nil,
	)
	return w
}

// Player exposes the distinguished actor.
func (w *World) Player() *Player {
	if w == nil {
		return nil
	}
	return w.player
}

// Depth reports the depth the player currently occupies.
func (w *World) Depth() int {
	if w == nil {
		return 0
	}
	return w.depth
}

// GameOver reports whether a fatal condition has latched.
func (w *World) GameOver() bool {
	return w != nil && w.gameOver
}

// PlayerTurnNumber advances only while the player is not paralyzed.
func (w *World) PlayerTurnNumber() uint64 {
	if w == nil {
		return 0
	}
	return w.playerTurnNumber
}

// AbsoluteTurnNumber always advances.
func (w *World) AbsoluteTurnNumber() uint64 {
	if w == nil {
		return 0
	}
	return w.absoluteTurnNumber
}

// Replaying reports whether this world was constructed for journal playback.
func (w *World) Replaying() bool {
	return w != nil && w.cfg.Replaying
}

// Journal exposes the replay journal for harnesses and the desync detector.
func (w *World) Journal() *journal.Journal {
	if w == nil {
		return nil
	}
	return w.journal
}

// LevelAt returns the level for a depth, or nil when out of range.
func (w *World) LevelAt(depth int) *Level {
	if w == nil || depth < 0 || depth >= len(w.levels) {
		return nil
	}
	return w.levels[depth]
}

func (w *World) currentLevel() *Level {
	return w.LevelAt(w.depth)
}

func (w *World) deepestDepth() int {
	if w == nil {
		return 0
	}
	return len(w.levels) - 1
}

func (w *World) playerCell() *Cell {
	level := w.currentLevel()
	if level == nil {
		return nil
	}
	return level.CellAt(w.player.X, w.player.Y)
}

// setGameOver latches the terminal flag. It is never cleared.
func (w *World) setGameOver(reason string) {
	if w == nil || w.gameOver {
		return
	}
	w.gameOver = true
	w.deps.Presenter.Message(reason)
	logginglifecycle.GameOver(
		context.Background(),
		w.publisher,
		w.absoluteTurnNumber,
		w.entityRef(&w.player.Actor),
		logginglifecycle.GameOverPayload{Reason: reason},
		nil,
	)
}

func (w *World) entityRef(a *Actor) logging.EntityRef {
	if a == nil {
		return logging.EntityRef{}
	}
	kind := logging.EntityKindMonster
	if w != nil && w.player != nil && a == &w.player.Actor {
		kind = logging.EntityKindPlayer
	}
	return logging.EntityRef{ID: a.ID, Kind: kind}
}

// SpawnMonster inserts an externally created actor into its depth's list.
// Actors spawned mid-tick are not eligible until the next tick because the
// clock iterates a pre-tick snapshot.
func (w *World) SpawnMonster(a *Actor, depth int) {
	if w == nil || a == nil {
		return
	}
	level := w.LevelAt(depth)
	if level == nil {
		return
	}
	if a.MovementSpeed <= 0 {
		a.MovementSpeed = 100
	}
	if a.BaseMoveSpeed <= 0 {
		a.BaseMoveSpeed = a.MovementSpeed
	}
	if a.BaseAttackSpeed <= 0 {
		a.BaseAttackSpeed = a.AttackSpeed
	}
	level.AddActor(a)
}

// vacantCellNear scans for a vacant cell, treating the player as an
// occupant on the player's own level. The actor list never carries the
// player, so the plain level scan cannot see them.
func (w *World) vacantCellNear(level *Level, x, y int) (int, int) {
	if level == nil {
		return x, y
	}
	if w == nil || w.player == nil || level.Depth != w.depth {
		return level.nearestVacantCell(x, y)
	}
	p := w.player
	return level.nearestVacantCellWhere(x, y, func(cx, cy int) bool {
		return cx == p.X && cy == p.Y
	})
}

// purgeDeadActors removes dying actors from every depth's list.
func (w *World) purgeDeadActors() {
	for _, level := range w.levels {
		if level == nil || len(level.Actors) == 0 {
			continue
		}
		kept := level.Actors[:0]
		for _, a := range level.Actors {
			if a == nil || a.Dying {
				continue
			}
			kept = append(kept, a)
		}
		level.Actors = kept
	}
}
