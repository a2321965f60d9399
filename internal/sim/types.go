package sim

// StatusKind identifies a timed status effect tracked per actor.
type StatusKind string

const (
	StatusHasted        StatusKind = "hasted"
	StatusSlowed        StatusKind = "slowed"
	StatusLevitating    StatusKind = "levitating"
	StatusConfused      StatusKind = "confused"
	StatusNauseous      StatusKind = "nauseous"
	StatusParalyzed     StatusKind = "paralyzed"
	StatusEntranced     StatusKind = "entranced"
	StatusPoisoned      StatusKind = "poisoned"
	StatusBurning       StatusKind = "burning"
	StatusShielded      StatusKind = "shielded"
	StatusFireImmune    StatusKind = "fire_immune"
	StatusBlastImmune   StatusKind = "blast_immune"
	StatusStuck         StatusKind = "stuck"
	StatusHallucinating StatusKind = "hallucinating"
)

// Status tracks a timed counter and the ceiling it was applied at.
type Status struct {
	Current int
	Max     int
}

// Approach marks an actor as in transit toward an adjacent depth. The
// variants are mutually exclusive, so the whole group is one field.
type Approach int

const (
	ApproachNone Approach = iota
	ApproachUpstairs
	ApproachDownstairs
	ApproachPit
)

// Actor is any creature participating in the turn schedule. The player
// embeds it with extra fields.
type Actor struct {
	ID    string
	Name  string
	X, Y  int
	Depth int

	// TicksUntilTurn is the actor's time debt. It may go negative inside a
	// tick; the scheduler normalizes it back to MovementSpeed before the
	// actor is rescheduled.
	TicksUntilTurn  int
	MovementSpeed   int
	AttackSpeed     int
	BaseMoveSpeed   int
	BaseAttackSpeed int

	HP    int
	MaxHP int
	XP    int

	Statuses map[StatusKind]*Status

	// Bookkeeping flags, distinct from timed statuses.
	Falling        bool
	Seized         bool
	Preplaced      bool
	Dying          bool
	ActivationOnly bool // only acts when activated; dies outright on a fall
	Captive        bool
	Submerged      bool
	Unique         bool // bespoke cross-depth handling, see migration
	IsLeader       bool
	LeaderID       string

	Approach      Approach
	EntersLevelIn int

	// Narration latches so repeat gas exposure stays quiet.
	notedGasExposure map[StatusKind]bool
}

// Status returns the live counter for kind, or zero when absent.
func (a *Actor) Status(kind StatusKind) int {
	if a == nil || a.Statuses == nil {
		return 0
	}
	if st, ok := a.Statuses[kind]; ok && st != nil {
		return st.Current
	}
	return 0
}

// SetStatus overwrites both the counter and its ceiling.
func (a *Actor) SetStatus(kind StatusKind, current, max int) {
	if a == nil {
		return
	}
	if a.Statuses == nil {
		a.Statuses = make(map[StatusKind]*Status)
	}
	if max < current {
		max = current
	}
	a.Statuses[kind] = &Status{Current: current, Max: max}
}

// RaiseStatus floors the counter at value without lowering an existing one.
func (a *Actor) RaiseStatus(kind StatusKind, value int) {
	if a == nil || value <= 0 {
		return
	}
	if a.Status(kind) >= value {
		return
	}
	a.SetStatus(kind, value, value)
}

func (a *Actor) hasStatus(kind StatusKind) bool {
	return a.Status(kind) > 0
}

// turnLocked reports whether the actor forfeits its turn this tick. Locked
// actors simply have their clock reset by the scheduler.
func (a *Actor) turnLocked() bool {
	if a == nil {
		return true
	}
	if a.ActivationOnly || a.Captive {
		return true
	}
	return a.hasStatus(StatusParalyzed) || a.hasStatus(StatusEntranced)
}

// ItemCategory partitions carried items for the few rules that care.
type ItemCategory string

const (
	ItemCategoryWeapon ItemCategory = "weapon"
	ItemCategoryArmor  ItemCategory = "armor"
	ItemCategoryAmulet ItemCategory = "amulet"
	ItemCategoryScroll ItemCategory = "scroll"
	ItemCategoryPotion ItemCategory = "potion"
)

// Item is the narrow view of an inventory entry the scheduler needs:
// runic hints and deep-water loss. Item generation lives elsewhere.
type Item struct {
	ID         string
	Name       string
	Category   ItemCategory
	Runic      bool
	RunicKnown bool
}

// Player is the distinguished actor driving the turn cycle.
type Player struct {
	Actor

	Nutrition    int
	StealthRange int
	Awareness    int
	Disturbed    bool
	JustRested   bool
	JustSearched bool

	Weapon *Item
	Armor  *Item
	Pack   []*Item
}

// carrying reports whether any pack item matches the category.
func (p *Player) carrying(category ItemCategory) bool {
	if p == nil {
		return false
	}
	for _, item := range p.Pack {
		if item != nil && item.Category == category {
			return true
		}
	}
	return false
}

// FlareKind tags a queued visual flare for the presentation layer.
type FlareKind string

const (
	FlareFallLanding FlareKind = "fall_landing"
	FlareTeleport    FlareKind = "teleport"
	FlareHazard      FlareKind = "hazard"
)

// Flare is a deferred visual emitted after the turn resolves.
type Flare struct {
	X, Y  int
	Depth int
	Kind  FlareKind
}

// turnOutcome reports how a sub-phase of the turn cycle ended.
type turnOutcome int

const (
	outcomeContinue turnOutcome = iota
	// outcomeTerminal aborts the rest of the current pass; the game
	// continues on the next call.
	outcomeTerminal
	// outcomeFatal means the game is over; gameOver is already set.
	outcomeFatal
)
