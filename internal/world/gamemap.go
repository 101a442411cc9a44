package world

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "world")

// Entity is the contract the map needs from anything placed on it. The map
// stores references and indices, never ownership; entities belong to
// whichever state created them.
type Entity interface {
	ID() uuid.UUID
	Position() (x, y int)
	SetPosition(x, y int)
}

// placement pairs an entity reference with the coordinate it occupies.
type placement struct {
	ent   Entity
	coord Coord
}

// Map aggregates the tile grid, the entity index, and the visibility state
// for one playable area. Invariants: a coordinate maps to at most one
// entity, an entity occupies at most one coordinate, and removal leaves no
// dangling index entries. All mutation happens on the frame goroutine, so
// the map does no locking.
type Map struct {
	grid     *Grid
	vis      *Visibility
	occupied map[Coord]uuid.UUID
	byID     map[uuid.UUID]placement
	weighted bool
}

// NewMap creates a map of the given size with every tile set to
// non-blocking empty terrain and nothing revealed.
func NewMap(width, height int) *Map {
	m := &Map{
		grid:     NewGrid(width, height),
		vis:      NewVisibility(),
		occupied: make(map[Coord]uuid.UUID),
		byID:     make(map[uuid.UUID]placement),
	}

	log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
	}).Debug("map created")

	return m
}

// Width returns the horizontal tile count.
func (m *Map) Width() int {
	return m.grid.Width
}

// Height returns the vertical tile count.
func (m *Map) Height() int {
	return m.grid.Height
}

// InBounds returns true if (x, y) addresses a cell on the map.
func (m *Map) InBounds(x, y int) bool {
	return m.grid.InBounds(x, y)
}

// GetTile returns the tile at (x, y); the second result is false when the
// coordinate is out of bounds.
func (m *Map) GetTile(x, y int) (Tile, bool) {
	return m.grid.Get(x, y)
}

// SetTile replaces the tile at (x, y). It returns false and writes nothing
// when the coordinate is out of bounds.
func (m *Map) SetTile(x, y int, t Tile) bool {
	return m.grid.Set(x, y, t)
}

// Neighbors returns the in-bounds orthogonal neighbors of (x, y). Off-grid
// candidates are excluded here, so pathfinding never considers them.
func (m *Map) Neighbors(x, y int) []Coord {
	neighbors := make([]Coord, 0, 4)
	for _, d := range [4]Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d.X, y+d.Y
		if m.grid.InBounds(nx, ny) {
			neighbors = append(neighbors, Coord{X: nx, Y: ny})
		}
	}
	return neighbors
}

// IsBlocked returns true if the coordinate cannot be occupied: blocking
// terrain, an entity already standing there, or off the grid entirely.
func (m *Map) IsBlocked(x, y int) bool {
	t, ok := m.grid.Get(x, y)
	if !ok || t.Blocking {
		return true
	}
	_, occupied := m.occupied[Coord{X: x, Y: y}]
	return occupied
}

// PlaceEntity puts an entity at (x, y). This is the single move primitive:
// when the entity already occupies another coordinate, that mapping is
// removed first, so a successful call leaves exactly one occupied cell for
// the entity and its position record matching it. A blocked destination
// refuses the placement with no state change.
func (m *Map) PlaceEntity(e Entity, x, y int) bool {
	if m.IsBlocked(x, y) {
		return false
	}

	id := e.ID()
	if prev, ok := m.byID[id]; ok {
		delete(m.occupied, prev.coord)
	}

	c := Coord{X: x, Y: y}
	m.occupied[c] = id
	m.byID[id] = placement{ent: e, coord: c}
	e.SetPosition(x, y)
	return true
}

// RemoveEntity clears the entity's mapping. It returns false when the
// entity is not currently placed.
func (m *Map) RemoveEntity(e Entity) bool {
	p, ok := m.byID[e.ID()]
	if !ok {
		return false
	}
	delete(m.occupied, p.coord)
	delete(m.byID, e.ID())
	return true
}

// GetEntityAt returns the entity occupying (x, y), if any.
func (m *Map) GetEntityAt(x, y int) (Entity, bool) {
	id, ok := m.occupied[Coord{X: x, Y: y}]
	if !ok {
		return nil, false
	}
	return m.byID[id].ent, true
}

// SetWeightedPaths toggles per-tile movement cost in pathfinding. Off by
// default: every step costs 1 and stored tile costs are ignored.
func (m *Map) SetWeightedPaths(on bool) {
	m.weighted = on
}

// FindPath returns the cheapest route from start to goal, both inclusive,
// or an empty path when the goal cannot be reached. Terrain and entities
// both block, except that the start cell ignores entity occupancy so a
// placed entity can path out of its own cell.
func (m *Map) FindPath(start, goal Coord) []Coord {
	pf := NewPathfinder(m.passableFrom(start), m.Neighbors)
	if m.weighted {
		pf.SetCost(m.enterCost)
	}
	return pf.FindPath(start, goal)
}

// passableFrom builds the passability predicate for a search rooted at
// start.
func (m *Map) passableFrom(start Coord) Passable {
	return func(x, y int) bool {
		t, ok := m.grid.Get(x, y)
		if !ok || t.Blocking {
			return false
		}
		c := Coord{X: x, Y: y}
		if c == start {
			return true
		}
		_, occupied := m.occupied[c]
		return !occupied
	}
}

// enterCost prices a step by the destination tile's movement cost.
func (m *Map) enterCost(_, to Coord) int {
	t, ok := m.grid.Get(to.X, to.Y)
	if !ok {
		return 1
	}
	return t.MoveCost
}

// UpdateFogOfWar recomputes visibility for a viewer standing at the given
// coordinate. Only terrain occludes sight; entities never do.
func (m *Map) UpdateFogOfWar(viewer Coord, radius int) {
	m.vis.Update(viewer, radius, m.grid.Width, m.grid.Height, m.opaque)
}

func (m *Map) opaque(x, y int) bool {
	t, ok := m.grid.Get(x, y)
	return ok && t.Blocking
}

// IsRevealed returns true if the coordinate has ever been seen.
func (m *Map) IsRevealed(c Coord) bool {
	return m.vis.IsRevealed(c)
}

// IsVisible returns true if the coordinate is in the current line of
// sight.
func (m *Map) IsVisible(c Coord) bool {
	return m.vis.IsVisible(c)
}

// RevealedCount returns the number of coordinates ever seen.
func (m *Map) RevealedCount() int {
	return m.vis.RevealedCount()
}
