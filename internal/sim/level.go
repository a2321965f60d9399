package sim

// TerrainKind identifies the dominant terrain of a cell.
type TerrainKind string

const (
	TerrainFloor         TerrainKind = "floor"
	TerrainWall          TerrainKind = "wall"
	TerrainChasm         TerrainKind = "chasm"
	TerrainLava          TerrainKind = "lava"
	TerrainDeepWater     TerrainKind = "deep_water"
	TerrainShallowWater  TerrainKind = "shallow_water"
	TerrainBog           TerrainKind = "bog"
	TerrainWeb           TerrainKind = "web"
	TerrainAcidPool      TerrainKind = "acid_pool"
	TerrainHealingSpring TerrainKind = "healing_spring"
	TerrainPoisonVines   TerrainKind = "poison_vines"
	TerrainPressurePlate TerrainKind = "pressure_plate"
	TerrainBrazier       TerrainKind = "brazier"
	TerrainUpStairs      TerrainKind = "up_stairs"
	TerrainDownStairs    TerrainKind = "down_stairs"
)

// GasKind identifies a transient gas overlay maintained by the environment
// collaborator.
type GasKind string

const (
	GasNone      GasKind = ""
	GasCaustic   GasKind = "caustic"
	GasConfusion GasKind = "confusion"
	GasParalysis GasKind = "paralysis"
	GasExplosive GasKind = "explosive"
)

// FeatureKind names a dungeon feature a trigger may spawn.
type FeatureKind string

const (
	FeaturePoisonBloom FeatureKind = "poison_bloom"
	FeatureGasBurst    FeatureKind = "gas_burst"
	FeaturePortcullis  FeatureKind = "portcullis"
)

// Cell is one tile of a level grid.
type Cell struct {
	Terrain TerrainKind
	Gas     GasKind

	// Secret holds terrain concealed behind the visible one; discovery
	// promotes it into Terrain.
	Secret     TerrainKind
	Discovered bool

	Burning   bool
	Flammable bool

	// PlateDepressed keeps a pressure plate from re-firing until vacated.
	PlateDepressed bool
	PlateFeature   FeatureKind

	// SearchedFromHere gates the passive search to once per tile per turn.
	SearchedFromHere bool

	// TrapFree marks a tile proven safe by prior traversal.
	TrapFree bool
}

func (c *Cell) hasSecret() bool {
	return c != nil && c.Secret != "" && !c.Discovered
}

// submergible terrain halves fall damage and douses fire.
func (c *Cell) submergible() bool {
	if c == nil {
		return false
	}
	switch c.Terrain {
	case TerrainShallowWater, TerrainBog:
		return true
	}
	return false
}

func (c *Cell) watery() bool {
	if c == nil {
		return false
	}
	switch c.Terrain {
	case TerrainDeepWater, TerrainShallowWater:
		return true
	}
	return false
}

// Level owns one depth's grid and its ordered actor list. The list order is
// load-bearing: tick eligibility ties resolve by it, and replays depend on
// reproducing it exactly.
type Level struct {
	Depth   int
	Visited bool
	Width   int
	Height  int
	Cells   [][]Cell

	Actors []*Actor

	UpStairsX, UpStairsY     int
	DownStairsX, DownStairsY int
	PitExitX, PitExitY       int

	ShoreDistanceStale bool
}

// NewLevel allocates an empty floor grid.
func NewLevel(depth, width, height int) *Level {
	if width <= 0 {
		width = defaultLevelWidth
	}
	if height <= 0 {
		height = defaultLevelHeight
	}
	cells := make([][]Cell, width)
	for x := range cells {
		cells[x] = make([]Cell, height)
		for y := range cells[x] {
			cells[x][y] = Cell{Terrain: TerrainFloor}
		}
	}
	return &Level{
		Depth:  depth,
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// CellAt returns the addressable cell, or nil when out of bounds.
func (l *Level) CellAt(x, y int) *Cell {
	if l == nil || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return nil
	}
	return &l.Cells[x][y]
}

// AddActor appends the actor to this depth's list and claims ownership.
func (l *Level) AddActor(a *Actor) {
	if l == nil || a == nil {
		return
	}
	a.Depth = l.Depth
	l.Actors = append(l.Actors, a)
}

// RemoveActor detaches the actor, preserving the order of the remainder.
func (l *Level) RemoveActor(a *Actor) bool {
	if l == nil || a == nil {
		return false
	}
	for i, other := range l.Actors {
		if other == a {
			l.Actors = append(l.Actors[:i], l.Actors[i+1:]...)
			return true
		}
	}
	return false
}

// HasActor reports list membership.
func (l *Level) HasActor(a *Actor) bool {
	if l == nil || a == nil {
		return false
	}
	for _, other := range l.Actors {
		if other == a {
			return true
		}
	}
	return false
}

// ActorAt returns the first live actor occupying the coordinates.
func (l *Level) ActorAt(x, y int) *Actor {
	if l == nil {
		return nil
	}
	for _, a := range l.Actors {
		if a != nil && !a.Dying && a.X == x && a.Y == y {
			return a
		}
	}
	return nil
}

// nearestVacantCell walks outward ring by ring looking for a passable cell
// with no occupant. The scan order is fixed so displacement replays.
func (l *Level) nearestVacantCell(x, y int) (int, int) {
	return l.nearestVacantCellWhere(x, y, nil)
}

// nearestVacantCellWhere adds an extra occupancy predicate for occupants the
// actor list does not track, like the player.
func (l *Level) nearestVacantCellWhere(x, y int, occupied func(int, int) bool) (int, int) {
	if l == nil {
		return x, y
	}
	for radius := 0; radius < maxDisplacementRadius; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if maxAbs(dx, dy) != radius {
					continue
				}
				cx, cy := x+dx, y+dy
				cell := l.CellAt(cx, cy)
				if cell == nil || !cellPassable(cell) {
					continue
				}
				if l.ActorAt(cx, cy) != nil {
					continue
				}
				if occupied != nil && occupied(cx, cy) {
					continue
				}
				return cx, cy
			}
		}
	}
	return x, y
}

func cellPassable(c *Cell) bool {
	if c == nil {
		return false
	}
	switch c.Terrain {
	case TerrainWall, TerrainChasm, TerrainLava:
		return false
	}
	return true
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
