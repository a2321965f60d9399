package sim

// Shared test doubles. Worlds built here run headless: every collaborator
// defaults to its no-op implementation unless a test swaps one in.

type recordingPresenter struct {
	messages []string
	combat   []string
	flushes  int
	hudCount int
	redraws  int
	pauses   int
	flares   []Flare
}

func (p *recordingPresenter) Message(text string)       { p.messages = append(p.messages, text) }
func (p *recordingPresenter) CombatMessage(text string) { p.combat = append(p.combat, text) }
func (p *recordingPresenter) FlushCombatText()          { p.flushes++ }
func (p *recordingPresenter) RefreshHUD(HUDSnapshot)    { p.hudCount++ }
func (p *recordingPresenter) RedrawLevel()              { p.redraws++ }
func (p *recordingPresenter) Flare(f Flare)             { p.flares = append(p.flares, f) }
func (p *recordingPresenter) Pause(int) bool            { p.pauses++; return false }

func (p *recordingPresenter) countMessage(text string) int {
	n := 0
	for _, m := range p.messages {
		if m == text {
			n++
		}
	}
	return n
}

type countingAI struct {
	turns map[string]int
}

func (ai *countingAI) TakeTurn(w *World, a *Actor) {
	if ai.turns == nil {
		ai.turns = make(map[string]int)
	}
	ai.turns[a.ID]++
}

type featureSpy struct {
	nopEnvironment
	spawned int
}

func (s *featureSpy) SpawnDungeonFeature(*World, int, int, FeatureKind) { s.spawned++ }

type blindVision struct{}

func (blindVision) UpdateVision(*World, bool)                 {}
func (blindVision) CanSeeMonster(*World, *Actor) bool         { return false }
func (blindVision) CanDirectlySeeMonster(*World, *Actor) bool { return false }

func newTestWorld(seed string, deps Deps) (*World, *recordingPresenter) {
	presenter := &recordingPresenter{}
	if deps.Presenter == nil {
		deps.Presenter = presenter
	}
	cfg := Config{Seed: seed, DepthCount: 4, LevelWidth: 20, LevelHeight: 10}
	w := NewWorld(cfg, deps, nil)
	return w, presenter
}

func newTestMonster(id string, speed int) *Actor {
	return &Actor{
		ID:              id,
		Name:            id,
		X:               5,
		Y:               5,
		MovementSpeed:   speed,
		AttackSpeed:     speed,
		BaseMoveSpeed:   speed,
		BaseAttackSpeed: speed,
		HP:              30,
		MaxHP:           30,
	}
}
